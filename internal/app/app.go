package app

import (
	"context"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/devstory/internal/analyzer"
	"github.com/maxbolgarin/devstory/internal/cache"
	"github.com/maxbolgarin/devstory/internal/config"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/devstory/internal/provider/github"
	"github.com/maxbolgarin/devstory/internal/server"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// DevStory is the main service that wires all components together
type DevStory struct {
	provider model.CommitProvider
	analyzer *analyzer.Analyzer
	cache    *cache.Cache[*model.AnalyzeResult]
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// LoadConfig reads configuration from an optional yaml file and the
// environment. Environment variables take precedence over the file.
func LoadConfig(path string) (config.Config, error) {
	var cfg config.Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, errm.Wrap(err, "read config file")
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, errm.Wrap(err, "read environment")
		}
	}

	// PORT is the conventional deployment knob
	if port := os.Getenv("PORT"); port != "" && cfg.Server.Address == "" {
		cfg.Server.Address = "0.0.0.0:" + port
	}

	if err := cfg.PrepareAndValidate(); err != nil {
		return cfg, errm.Wrap(err, "validate config")
	}

	return cfg, nil
}

// New creates the analysis service
func New(ctx contem.Context, cfg config.Config) (*DevStory, error) {
	s := &DevStory{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := s.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return s, nil
}

// Start launches the HTTP server and the background sweepers
func (s *DevStory) Start(ctx context.Context) error {
	s.cache.StartSweeper(ctx, s.cfg.Cache.SweepInterval)

	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}
	return nil
}

func (s *DevStory) init(ctx contem.Context, cfg config.Config) (err error) {
	s.provider, err = github.New(cfg.GitHub)
	if err != nil {
		return errm.Wrap(err, "failed to create GitHub provider")
	}

	s.cache = cache.New[*model.AnalyzeResult](cfg.Cache.TTL)

	s.analyzer, err = analyzer.New(cfg.Analyzer, s.provider, s.cache)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer")
	}
	ctx.Add(func(context.Context) error {
		s.analyzer.Close()
		return nil
	})

	s.server, err = server.New(cfg.Server, s.analyzer, s.provider, s.cache)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}
	ctx.Add(s.server.Stop)

	return nil
}
