// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for optional .env files. Values already present in
// the process environment always win over values from files.
//
// # Usage
//
//	type Config struct {
//	    Name        string        `env:"NAME" envDefault:"worker"`
//	    StopTimeout time.Duration `env:"STOP_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("LIFECYCLE_")); err != nil {
//	    log.Fatalf("config: %v", err)
//	}
//
// The default .env file in the working directory is read once per process if
// it exists. WithEnvFiles reads additional files and fails if any is missing.
//
// # Errors
//
//   - ErrNilPointer: nil pointer passed to Load or MustLoad.
//   - ErrLoadingEnvFile: an explicitly requested .env file could not be read.
//   - ErrParsingConfig: the environment could not be parsed into the struct.
package config
