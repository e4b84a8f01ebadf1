// Package logger builds *slog.Logger values for the packages in this module and
// keeps attribute naming consistent across them.
//
// New creates a logger from functional options: output format (text or json),
// minimum level, static attributes and ContextExtractor callbacks that pull
// attributes out of a context.Context on every record.
//
//	log := logger.New(
//	    logger.WithDevelopment("worker-pool"),
//	    logger.WithContextExtractors(lifecycle.LogExtractor()),
//	)
//
//	log.InfoContext(ctx, "state changed",
//	    logger.Component("ingest"),
//	    logger.State(next),
//	)
//
// Attribute helpers such as Error and Errors return an empty slog.Attr for nil
// errors, which slog drops, so they can be passed without a nil check.
package logger
