// Package config handles configuration for the CLI client component.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// Config holds runtime settings for the AuthKeeper CLI.
type Config struct {
	// ServerBaseURL is the base URL of the backend HTTP endpoint.
	ServerBaseURL string `env:"AUTHKEEPER_SERVER"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
}

func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.StringVar(&config.ServerBaseURL, "e", config.ServerBaseURL, "server base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment and command-line flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	parseFlags(cfg)
	return cfg, nil
}
