package config

import (
	"time"

	"github.com/maxbolgarin/devstory/internal/analyzer"
	"github.com/maxbolgarin/devstory/internal/provider/github"
	"github.com/maxbolgarin/devstory/internal/server"
)

// Config represents the main application configuration
type Config struct {
	Server   server.Config   `yaml:"server"`
	GitHub   github.Config   `yaml:"github"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Cache    CacheConfig     `yaml:"cache"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl" env:"CACHE_TTL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"CACHE_SWEEP_INTERVAL"`
}

// PrepareAndValidate fills defaults and validates every section
func (c *Config) PrepareAndValidate() error {
	if err := c.Server.PrepareAndValidate(); err != nil {
		return err
	}
	if err := c.GitHub.PrepareAndValidate(); err != nil {
		return err
	}
	if err := c.Analyzer.PrepareAndValidate(); err != nil {
		return err
	}
	return nil
}
