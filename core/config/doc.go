// Package config loads environment configuration into tagged structs.
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Load reads a .env file on first use, parses with caarlos0/env and caches the
// result per type, so every later Load of the same type sees the same values.
// Parse takes an explicit variable map and is what tests should use.
package config
