// Package config loads environment configuration into typed structs with
// caarlos0/env. A .env file in the working directory is read once on first
// use, and each struct type is parsed once and cached.
//
// The router, server and demo command all describe their settings this way:
//
//	type Config struct {
//		Router router.Config // ROUTER_*
//		Server server.Config // SERVER_*
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Repeated loads of the same type return the cached value, so later changes
// to the environment are not seen until Reset is called. Reset exists for
// tests that set variables with t.Setenv.
package config
