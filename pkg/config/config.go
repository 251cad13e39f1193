package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

const Development = "development"

// Configuration holds the serve-mode settings, read from OLIST_* env vars.
type Configuration struct {
	Env       string `envconfig:"ENV" default:"development"`
	Port      int    `envconfig:"PORT" default:"8080"`
	CacheSize int    `envconfig:"CACHE_SIZE" default:"4"`
	TopN      int    `envconfig:"TOP_N" default:"10"`
}

// Init reads the environment and sets up logging. Outside development the
// logger emits JSON for log collectors.
func Init() (*Configuration, error) {
	var cfg Configuration
	if err := envconfig.Process("olist", &cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	if cfg.Env != Development {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.WithFields(log.Fields{"env": cfg.Env, "port": cfg.Port}).Info("Config loaded")
	return &cfg, nil
}
