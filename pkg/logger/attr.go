package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a named group of attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under an "errors" key indexed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// State records a state value. Values implementing fmt.Stringer or
// slog.LogValuer are rendered through those interfaces by the handler.
func State(s any) slog.Attr {
	return slog.Any("state", s)
}

func PrevState(s any) slog.Attr {
	return slog.Any("prev_state", s)
}

func WakeState(s string) slog.Attr {
	return slog.String("wake_state", s)
}

func Waiters(n int) slog.Attr {
	return slog.Int("waiters", n)
}

func Sequence(n uint64) slog.Attr {
	return slog.Uint64("seq", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func WorkerID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("worker_id", id)
}
