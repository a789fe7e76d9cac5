package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses the process environment into cfg using `env` struct tags.
func Load(cfg any) error {
	return LoadFrom(cfg, nil)
}

// LoadFrom parses cfg from the given variables instead of the process
// environment. A nil map means the process environment.
func LoadFrom(cfg any, vars map[string]string) error {
	opts := env.Options{}
	if vars != nil {
		opts.Environment = vars
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
