package model

import (
	"strings"
	"time"
)

// RepoRef identifies a GitHub repository, derived once per request from the input URL
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// FileStatus is the short form of a GitHub file change status
type FileStatus string

const (
	StatusAdded    FileStatus = "A"
	StatusModified FileStatus = "M"
	StatusDeleted  FileStatus = "D"
	StatusRenamed  FileStatus = "R"
	StatusCopied   FileStatus = "C"
)

// StatusFromGitHub maps GitHub's verbose status strings to the short form.
// Unknown statuses fall back to their first letter uppercased.
func StatusFromGitHub(status string) FileStatus {
	switch status {
	case "added":
		return StatusAdded
	case "modified", "changed":
		return StatusModified
	case "removed":
		return StatusDeleted
	case "renamed":
		return StatusRenamed
	case "copied":
		return StatusCopied
	}
	if status == "" {
		return StatusModified
	}
	return FileStatus(strings.ToUpper(status[:1]))
}

// RawCommit is the provider-shaped commit detail, the source of truth for
// everything downstream. Field precedence rules are applied by the normalizer,
// not here.
type RawCommit struct {
	SHA           string
	AuthorName    string
	AuthorLogin   string
	AuthorDate    string // ISO-8601 as returned by the API
	CommitterDate string
	Message       string
	Files         []RawFile
}

// RawFile is a single file entry of a commit detail response
type RawFile struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Changes   int
	Patch     string
}

// CommitSummary is a single entry of the commits listing, used only to obtain
// SHAs for the detail fetch
type CommitSummary struct {
	SHA string
}

// FileChange is a normalized per-file change inside a CommitItem
type FileChange struct {
	Status    FileStatus `json:"status"`
	File      string     `json:"file"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Changes   int        `json:"changes"`
	Patch     string     `json:"patch,omitempty"`
	Content   string     `json:"content,omitempty"`
	Size      int        `json:"size,omitempty"`
}

// CommitItem is a normalized commit, immutable after the analysis run
type CommitItem struct {
	Commit    string       `json:"commit"` // 7-char short SHA for display
	SHA       string       `json:"sha"`    // full SHA for follow-up requests
	Author    string       `json:"author"`
	Date      string       `json:"date"`      // YYYY-MM-DD
	Timestamp string       `json:"timestamp"` // ISO-8601, sort key
	Message   string       `json:"message"`   // first line only
	Changes   []FileChange `json:"changes"`
}

// Time parses the commit timestamp. Malformed timestamps yield the zero time,
// callers treat it as unknown.
func (c CommitItem) Time() time.Time {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
