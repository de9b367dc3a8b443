package model

import "context"

// CommitProvider defines the upstream source of commit history. Implemented by
// the GitHub provider; the analyzer and server depend on this interface only.
type CommitProvider interface {
	// ListCommits returns up to maxCommits commit summaries, newest first as
	// delivered by the API. maxCommits <= 0 means no limit.
	ListCommits(ctx context.Context, ref RepoRef, maxCommits int) ([]CommitSummary, error)

	// GetCommit fetches the full detail for a single commit
	GetCommit(ctx context.Context, ref RepoRef, sha string) (*RawCommit, error)

	// GetFileContent fetches decoded file content at a given ref
	GetFileContent(ctx context.Context, ref RepoRef, path, gitRef string) (*FileContent, error)

	// Ping probes API reachability for health reporting
	Ping(ctx context.Context) error
}

// FileContent is a decoded file fetched from the contents API
type FileContent struct {
	Path    string
	Content []byte
	Size    int // upstream-reported size, may exceed len(Content) for capped fetches
}
