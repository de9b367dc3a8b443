package server

import (
	"strconv"
	"time"

	"github.com/maxbolgarin/lang"
)

const (
	defaultAddress = "0.0.0.0:4000"
	defaultTimeout = 30 * time.Second

	defaultAPILimit      = 100
	defaultAPIWindow     = 15 * time.Minute
	defaultAnalyzeLimit  = 10
	defaultAnalyzeWindow = time.Hour
)

// Config represents HTTP server configuration
type Config struct {
	Address    string        `yaml:"address" env:"SERVER_ADDRESS"`
	Port       int           `yaml:"port" env:"PORT"`
	Timeout    time.Duration `yaml:"timeout" env:"SERVER_TIMEOUT"`
	CORSOrigin string        `yaml:"cors_origin" env:"CORS_ORIGIN"`

	// Fixed-window rate limits, per client IP
	APIRateLimit      int           `yaml:"api_rate_limit" env:"API_RATE_LIMIT"`
	APIRateWindow     time.Duration `yaml:"api_rate_window" env:"API_RATE_WINDOW"`
	AnalyzeRateLimit  int           `yaml:"analyze_rate_limit" env:"ANALYZE_RATE_LIMIT"`
	AnalyzeRateWindow time.Duration `yaml:"analyze_rate_window" env:"ANALYZE_RATE_WINDOW"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Address = lang.Check(cfg.Address, defaultAddress)
	if cfg.Port != 0 {
		// PORT, when set, overrides the port part of the address
		cfg.Address = "0.0.0.0:" + strconv.Itoa(cfg.Port)
	}
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)
	cfg.APIRateLimit = lang.Check(cfg.APIRateLimit, defaultAPILimit)
	cfg.APIRateWindow = lang.Check(cfg.APIRateWindow, defaultAPIWindow)
	cfg.AnalyzeRateLimit = lang.Check(cfg.AnalyzeRateLimit, defaultAnalyzeLimit)
	cfg.AnalyzeRateWindow = lang.Check(cfg.AnalyzeRateWindow, defaultAnalyzeWindow)
	return nil
}
