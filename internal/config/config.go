// Package config loads the service configuration from the environment.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Solver struct {
		// Timeout caps one optimization run in seconds; the solver returns
		// its best-so-far plan when the deadline passes.
		Timeout       int   `env:"TIMEOUT" envDefault:"30"`
		MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"1048576"`
	} `envPrefix:"SOLVER_"`
	Store struct {
		Dir string `env:"DIR" envDefault:".beamcut"`
	} `envPrefix:"STORE_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Only surface the first error to keep logs readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
