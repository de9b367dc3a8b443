package analyzer

import "github.com/maxbolgarin/lang"

const (
	defaultConcurrency = 6
	defaultMaxCommits  = 1000
)

// Config represents analysis pipeline configuration
type Config struct {
	// Concurrency caps simultaneous in-flight commit detail requests
	Concurrency int `yaml:"concurrency" env:"ANALYZER_CONCURRENCY"`

	// MaxCommitsLimit is the upper bound a request may ask for
	MaxCommitsLimit int `yaml:"max_commits_limit" env:"ANALYZER_MAX_COMMITS_LIMIT"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Concurrency = lang.Check(cfg.Concurrency, defaultConcurrency)
	cfg.MaxCommitsLimit = lang.Check(cfg.MaxCommitsLimit, defaultMaxCommits)
	return nil
}
