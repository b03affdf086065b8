// Package config loads reqkit configuration from a YAML file, a .env file and
// environment variables, in increasing order of precedence.
//
//	var cfg cli.Config
//	err := config.LoadConfig("reqkit", &cfg, config.WithConfigFile(path))
//
// Environment variables carry the upper-cased application name as prefix and
// use underscores for nesting: REQKIT_HTTP_BASE_URL sets http.base_url.
package config
