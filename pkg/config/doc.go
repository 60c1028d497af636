// Package config loads typed configuration structs from environment
// variables, with optional .env file support for development.
//
// Each package in this module declares its own Config struct with `env`
// tags and loads it through the generic Load function:
//
//	var cfg domains.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Parsed configurations are cached per type for the lifetime of the
// process, so repeated loads across packages are cheap and consistent.
package config
