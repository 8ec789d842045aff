package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// storeConfig selects and parameterizes the key-value backend. Values
// come from the environment first and flags second, so a flag always
// wins over an exported variable.
type storeConfig struct {
	Backend       string `env:"FLATCONF_STORE" envDefault:"redis"`
	RedisAddr     string `env:"FLATCONF_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"FLATCONF_REDIS_PASSWORD"`
	RedisDB       int    `env:"FLATCONF_REDIS_DB" envDefault:"0"`
	NATSURL       string `env:"FLATCONF_NATS_URL"`
	NATSBucket    string `env:"FLATCONF_NATS_BUCKET" envDefault:"flatconf"`
}

func loadStoreConfig() (*storeConfig, error) {
	cfg := &storeConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
