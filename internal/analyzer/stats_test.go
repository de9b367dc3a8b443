package analyzer

import (
	"testing"

	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commit(sha, author, timestamp string, changes ...model.FileChange) model.CommitItem {
	return model.CommitItem{
		Commit:    sha[:min(7, len(sha))],
		SHA:       sha,
		Author:    author,
		Date:      timestamp[:10],
		Timestamp: timestamp,
		Changes:   changes,
	}
}

func change(file string, additions, deletions int) model.FileChange {
	return model.FileChange{
		Status:    model.StatusModified,
		File:      file,
		Additions: additions,
		Deletions: deletions,
		Changes:   additions + deletions,
	}
}

func TestComputeStats_Empty(t *testing.T) {
	t.Parallel()

	stats := computeStats(nil)

	assert.Zero(t, stats.TotalFiles)
	assert.Zero(t, stats.TotalLines)
	assert.Empty(t, stats.Languages)
	assert.Empty(t, stats.FileTypes)
	assert.Empty(t, stats.Contributors)
	assert.Zero(t, stats.CommitFrequency.Daily)
	assert.Zero(t, stats.AverageCommitSize)
	assert.Zero(t, stats.LargestCommit.Files)
}

func TestComputeStats_Aggregates(t *testing.T) {
	t.Parallel()

	commits := []model.CommitItem{
		commit("aaaaaaa0000", "alice", "2024-01-01T10:00:00Z",
			change("src/api/server.ts", 100, 20),
			change("src/components/App.tsx", 30, 10),
		),
		commit("bbbbbbb0000", "bob", "2024-01-08T10:00:00Z",
			change("src/api/server.ts", 5, 5),
		),
		commit("ccccccc0000", "alice", "2024-01-15T10:00:00Z",
			change("main.go", 40, 0),
		),
	}

	stats := computeStats(commits)

	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, 210, stats.TotalLines)

	// languages: TypeScript 170, Go 40
	require.NotEmpty(t, stats.Languages)
	assert.Equal(t, "TypeScript", stats.Languages[0].Language)
	assert.Equal(t, 170, stats.Languages[0].Lines)
	assert.Equal(t, 2, stats.Languages[0].Files)

	var sum float64
	for _, l := range stats.Languages {
		sum += l.Percentage
	}
	assert.InDelta(t, 100, sum, 0.001)

	// contributors sorted by commits desc
	require.Len(t, stats.Contributors, 2)
	assert.Equal(t, "alice", stats.Contributors[0].Author)
	assert.Equal(t, 2, stats.Contributors[0].Commits)
	assert.Equal(t, 170, stats.Contributors[0].LinesAdded)
	assert.InDelta(t, 66.666, stats.Contributors[0].Percentage, 0.01)

	// 4 changes over 3 commits
	assert.InDelta(t, 4.0/3.0, stats.AverageCommitSize, 0.001)

	// span is 14 days
	assert.InDelta(t, 3.0/14.0, stats.CommitFrequency.Daily, 0.001)
	assert.InDelta(t, 3.0/2.0, stats.CommitFrequency.Weekly, 0.001)
	assert.InDelta(t, 3.0, stats.CommitFrequency.Monthly, 0.001)

	// all commits are at 10:00 on Mondays
	assert.Equal(t, 1, stats.MostActiveDay)
	assert.Equal(t, 10, stats.MostActiveHour)
}

func TestComputeStats_LargestCommit(t *testing.T) {
	t.Parallel()

	commits := []model.CommitItem{
		commit("aaaaaaa0000", "a", "2024-01-01T00:00:00Z",
			change("one.go", 10, 0),
			change("two.go", 10, 0),
		),
		// same file count, more lines: wins the tie-break
		commit("bbbbbbb0000", "a", "2024-01-02T00:00:00Z",
			change("one.go", 100, 50),
			change("two.go", 10, 0),
		),
		commit("ccccccc0000", "a", "2024-01-03T00:00:00Z",
			change("one.go", 1000, 0),
		),
	}

	stats := computeStats(commits)

	assert.Equal(t, "bbbbbbb0000", stats.LargestCommit.SHA)
	assert.Equal(t, 2, stats.LargestCommit.Files)
	assert.Equal(t, 160, stats.LargestCommit.Lines)
}

func TestComputeStats_SingleCommitSpan(t *testing.T) {
	t.Parallel()

	stats := computeStats([]model.CommitItem{
		commit("aaaaaaa0000", "a", "2024-01-01T00:00:00Z", change("x.go", 1, 0)),
	})

	// span floors at one day, one week, one month
	assert.InDelta(t, 1.0, stats.CommitFrequency.Daily, 0.001)
	assert.InDelta(t, 1.0, stats.CommitFrequency.Weekly, 0.001)
	assert.InDelta(t, 1.0, stats.CommitFrequency.Monthly, 0.001)
}

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.FileTypeBackend, detectFileType("src/api/users.ts"))
	assert.Equal(t, model.FileTypeBackend, detectFileType("internal/server/server.go"))
	assert.Equal(t, model.FileTypeFrontend, detectFileType("src/components/App.tsx"))
	assert.Equal(t, model.FileTypeFrontend, detectFileType("web/pages/index.jsx"))
	assert.Equal(t, model.FileTypeSchema, detectFileType("prisma/schema.prisma"))
	assert.Equal(t, model.FileTypeSchema, detectFileType("db/migrate.sql"))
	assert.Equal(t, model.FileTypeInfra, detectFileType("Dockerfile"))
	assert.Equal(t, model.FileTypeInfra, detectFileType(".github/workflows/ci.yml"))
	assert.Equal(t, model.FileTypeOther, detectFileType("README.md"))

	// first matching bucket wins: an /api/ path is Backend even with a
	// frontend extension
	assert.Equal(t, model.FileTypeBackend, detectFileType("src/api/page.tsx"))
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TypeScript", detectLanguage("src/index.ts"))
	assert.Equal(t, "TypeScript", detectLanguage("src/App.tsx"))
	assert.Equal(t, "JavaScript", detectLanguage("lib/util.js"))
	assert.Equal(t, "Go", detectLanguage("main.go"))
	assert.Equal(t, "Other", detectLanguage("data.xyzunknown"))
}
