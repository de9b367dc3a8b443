package github

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"
)

var _ model.CommitProvider = (*Provider)(nil)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultTimeout    = 30 * time.Second

	commitsPerPage = 100
)

// Config represents GitHub API client configuration
type Config struct {
	// Token is optional; unauthenticated requests are limited to 60/hour by
	// GitHub, authenticated ones to 5000/hour
	Token   string        `yaml:"token" env:"GITHUB_TOKEN"`
	BaseURL string        `yaml:"base_url" env:"GITHUB_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"GITHUB_TIMEOUT"`
}

func (cfg *Config) PrepareAndValidate() error {
	cfg.Timeout = lang.Check(cfg.Timeout, defaultTimeout)
	return nil
}

// Provider implements model.CommitProvider on top of the GitHub REST API
type Provider struct {
	client *github.Client
	probe  *cliex.HTTP
	cfg    Config
	log    logze.Logger
}

// New creates a new GitHub provider
func New(cfg Config) (*Provider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "prepare and validate config")
	}
	log := logze.With("provider", "github")

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
		hc.Timeout = cfg.Timeout
	}

	client := github.NewClient(hc)
	if cfg.BaseURL != "" && cfg.BaseURL != defaultAPIBaseURL {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "create GitHub Enterprise client")
		}
	}

	probe, err := cliex.New(
		cliex.WithBaseURL(lang.Check(cfg.BaseURL, defaultAPIBaseURL)),
		cliex.WithLogger(log),
	)
	if err != nil {
		return nil, errm.Wrap(err, "create probe client")
	}

	return &Provider{
		client: client,
		probe:  probe,
		cfg:    cfg,
		log:    log,
	}, nil
}

// ListCommits pages through the commits listing, 100 per page, accumulating
// until a short or empty page or maxCommits entries. The result is truncated
// to exactly maxCommits. No retry at this layer.
func (p *Provider) ListCommits(ctx context.Context, ref model.RepoRef, maxCommits int) ([]model.CommitSummary, error) {
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: commitsPerPage, Page: 1},
	}

	var summaries []model.CommitSummary
	for {
		commits, _, err := p.client.Repositories.ListCommits(ctx, ref.Owner, ref.Repo, opts)
		if err != nil {
			return nil, translateError(err)
		}
		if len(commits) == 0 {
			break
		}

		for _, c := range commits {
			summaries = append(summaries, model.CommitSummary{SHA: c.GetSHA()})
		}

		if maxCommits > 0 && len(summaries) >= maxCommits {
			return summaries[:maxCommits], nil
		}
		if len(commits) < commitsPerPage {
			break
		}
		opts.Page++
	}

	return summaries, nil
}

// GetCommit fetches the full detail for a single commit, including per-file
// changes
func (p *Provider) GetCommit(ctx context.Context, ref model.RepoRef, sha string) (*model.RawCommit, error) {
	commit, _, err := p.client.Repositories.GetCommit(ctx, ref.Owner, ref.Repo, sha, nil)
	if err != nil {
		return nil, translateError(err)
	}
	return mapCommit(commit), nil
}

// GetFileContent fetches decoded file content at a ref via the contents API
func (p *Provider) GetFileContent(ctx context.Context, ref model.RepoRef, path, gitRef string) (*model.FileContent, error) {
	opts := &github.RepositoryContentGetOptions{Ref: gitRef}
	file, _, _, err := p.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, opts)
	if err != nil {
		return nil, translateError(err)
	}
	if file == nil {
		return nil, &model.UpstreamError{Kind: KindOf(http.StatusNotFound), Status: http.StatusNotFound, Message: path + " is not a file"}
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errm.Wrap(err, "decode file content")
	}

	return &model.FileContent{
		Path:    file.GetPath(),
		Content: []byte(content),
		Size:    file.GetSize(),
	}, nil
}

// Ping probes the API root for the health endpoint
func (p *Provider) Ping(ctx context.Context) error {
	var out map[string]any
	if _, err := p.probe.Get(ctx, "/rate_limit", &out); err != nil {
		return errm.Wrap(err, "github api is unreachable")
	}
	return nil
}

func mapCommit(c *github.RepositoryCommit) *model.RawCommit {
	raw := &model.RawCommit{
		SHA:         c.GetSHA(),
		AuthorLogin: c.GetAuthor().GetLogin(),
		Message:     c.GetCommit().GetMessage(),
	}

	if commit := c.GetCommit(); commit != nil {
		if author := commit.GetAuthor(); author != nil {
			raw.AuthorName = author.GetName()
			if !author.GetDate().IsZero() {
				raw.AuthorDate = author.GetDate().Format(time.RFC3339)
			}
		}
		if committer := commit.GetCommitter(); committer != nil && !committer.GetDate().IsZero() {
			raw.CommitterDate = committer.GetDate().Format(time.RFC3339)
		}
	}

	for _, f := range c.Files {
		raw.Files = append(raw.Files, model.RawFile{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
			Patch:     f.GetPatch(),
		})
	}

	return raw
}
