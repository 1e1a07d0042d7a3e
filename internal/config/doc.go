// Package config provides loading and environment overlay for the service
// configuration. It exposes a Default() baseline, a JSON file loader, and
// an OOP_* environment overlay applied on top.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/libreoopweb.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
