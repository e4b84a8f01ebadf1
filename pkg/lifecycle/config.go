package lifecycle

import (
	"time"

	"github.com/dmitrymomot/statewatch/pkg/config"
)

const envPrefix = "LIFECYCLE_"

// Config holds worker settings.
type Config struct {
	Name        string        `env:"NAME" envDefault:"worker"`
	StopTimeout time.Duration `env:"STOP_TIMEOUT" envDefault:"10s"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{Name: "worker", StopTimeout: 10 * time.Second}
}

// LoadConfig reads Config from LIFECYCLE_* environment variables.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	opts = append([]config.Option{config.WithPrefix(envPrefix)}, opts...)
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
