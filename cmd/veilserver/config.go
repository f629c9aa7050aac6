package main

import (
	"encoding/hex"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the demo server settings, populated from environment
// variables.
type Config struct {
	Address        string `env:"VEIL_ADDRESS" envDefault:":8080"`
	RootKeyHex     string `env:"VEIL_ROOT_KEY,required"`
	PathPurpose    string `env:"VEIL_PATH_PURPOSE" envDefault:"veil.path"`
	QueryPurpose   string `env:"VEIL_QUERY_PURPOSE" envDefault:"veil.query"`
	PeoplePurpose  string `env:"VEIL_PEOPLE_PURPOSE" envDefault:"veil.query.people"`
	IgnoreWarnings bool   `env:"VEIL_IGNORE_WARNINGS" envDefault:"false"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}

// RootKey decodes the hex-encoded root key.
func (c *Config) RootKey() ([]byte, error) {
	key, err := hex.DecodeString(c.RootKeyHex)
	if err != nil {
		return nil, fmt.Errorf("VEIL_ROOT_KEY is not valid hex: %w", err)
	}
	return key, nil
}
