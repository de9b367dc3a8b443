package analyzer

import (
	"sort"
	"strings"
	"time"

	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/lang"
)

const shortSHALength = 7

// normalizeCommits maps raw commit details to the internal shape and stable
// sorts them ascending by the raw ISO-8601 timestamp string.
func normalizeCommits(raw []*model.RawCommit) []model.CommitItem {
	items := make([]model.CommitItem, 0, len(raw))
	for _, rc := range raw {
		if rc == nil {
			continue
		}
		items = append(items, normalizeCommit(rc))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp < items[j].Timestamp
	})

	return items
}

func normalizeCommit(rc *model.RawCommit) model.CommitItem {
	timestamp := lang.Check(rc.AuthorDate, rc.CommitterDate)
	if timestamp == "" {
		// should never happen with real API responses
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	author := lang.Check(rc.AuthorName, rc.AuthorLogin)
	if author == "" {
		author = "Unknown"
	}

	changes := make([]model.FileChange, 0, len(rc.Files))
	for _, f := range rc.Files {
		changes = append(changes, model.FileChange{
			Status:    model.StatusFromGitHub(f.Status),
			File:      f.Filename,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Changes:   f.Changes,
		})
	}

	return model.CommitItem{
		Commit:    shortSHA(rc.SHA),
		SHA:       rc.SHA,
		Author:    author,
		Date:      formatDate(timestamp),
		Timestamp: timestamp,
		Message:   firstLine(rc.Message),
		Changes:   changes,
	}
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

// formatDate returns the YYYY-MM-DD prefix of an ISO-8601 timestamp
func formatDate(timestamp string) string {
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
