package analyzer

import (
	"context"
	"sync"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/devstory/internal/cache"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"
)

// Analyzer runs the repository analysis pipeline: list commits, fetch details
// with bounded concurrency, normalize, compute statistics. Results are cached
// per (repoUrl, maxCommits).
type Analyzer struct {
	provider model.CommitProvider
	cache    *cache.Cache[*model.AnalyzeResult]
	pool     *ants.Pool

	cfg Config
	log logze.Logger
}

// New creates a new analyzer
func New(cfg Config, provider model.CommitProvider, resultCache *cache.Cache[*model.AnalyzeResult]) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "prepare and validate config")
	}

	pool, err := ants.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, errm.Wrap(err, "create ants pool")
	}

	return &Analyzer{
		provider: provider,
		cache:    resultCache,
		pool:     pool,
		cfg:      cfg,
		log:      logze.With("component", "analyzer"),
	}, nil
}

// Close releases the fan-out worker pool
func (a *Analyzer) Close() {
	a.pool.Release()
}

// Analyze returns the full analysis for a repository URL, serving from cache
// when a fresh entry exists. maxCommits <= 0 or above the configured
// MaxCommitsLimit falls back to that limit; the clamped value is also the
// cache key.
func (a *Analyzer) Analyze(ctx context.Context, repoURL string, maxCommits int) (*model.AnalyzeResult, error) {
	repoURL = SanitizeRepoURL(repoURL)
	if maxCommits <= 0 || maxCommits > a.cfg.MaxCommitsLimit {
		maxCommits = a.cfg.MaxCommitsLimit
	}

	if cached, ok := a.cache.Get(cache.Key(repoURL, maxCommits)); ok {
		a.log.Debug("cache hit", "repo_url", repoURL, "max_commits", maxCommits)
		return cached, nil
	}

	ref, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, errm.Wrap(err, "parse repo URL")
	}

	log := a.log.WithFields("repo", ref.String(), "max_commits", maxCommits)
	timer := abstract.StartTimer()

	summaries, err := a.provider.ListCommits(ctx, ref, maxCommits)
	if err != nil {
		return nil, errm.Wrap(err, "list commits")
	}

	result := &model.AnalyzeResult{RepoURL: repoURL, Commits: []model.CommitItem{}}
	if len(summaries) == 0 {
		result.Stats = computeStats(nil)
		a.cache.Set(cache.Key(repoURL, maxCommits), result)
		return result, nil
	}

	details, err := a.fetchDetails(ctx, ref, summaries)
	if err != nil {
		return nil, errm.Wrap(err, "fetch commit details")
	}

	result.Commits = normalizeCommits(details)
	result.Stats = computeStats(result.Commits)

	a.cache.Set(cache.Key(repoURL, maxCommits), result)

	log.Info("analyzed repository",
		"commits", len(result.Commits),
		"files", result.Stats.TotalFiles,
		"elapsed_time", timer.ElapsedTime().String(),
	)

	return result, nil
}

// fetchDetails fans out detail requests over the worker pool. Results keep the
// listing order regardless of completion order. A single failure aborts the
// whole analysis: the first error to occur is returned and no partial result
// is produced; requests already in flight run to completion.
func (a *Analyzer) fetchDetails(ctx context.Context, ref model.RepoRef, summaries []model.CommitSummary) ([]*model.RawCommit, error) {
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		details  = make([]*model.RawCommit, len(summaries))
	)

	for i, summary := range summaries {
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			detail, err := a.provider.GetCommit(ctx, ref, summary.SHA)
			if err != nil {
				once.Do(func() { firstErr = errm.Wrap(err, "get commit "+summary.SHA) })
				return
			}
			details[i] = detail
		})
		if err != nil {
			wg.Done()
			once.Do(func() { firstErr = errm.Wrap(err, "submit to pool") })
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return details, nil
}
