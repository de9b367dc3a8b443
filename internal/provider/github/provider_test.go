package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return p
}

func commitJSON(sha string) string {
	return fmt.Sprintf(`{"sha":%q}`, sha)
}

func TestListCommits_Paging(t *testing.T) {
	t.Parallel()

	// 100 commits on page 1, 40 on page 2; the short page stops the loop
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/octocat/hello/commits", r.URL.Path)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		count := 100
		if page >= 2 {
			count = 40
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i := 0; i < count; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprint(w, commitJSON(fmt.Sprintf("%02d%038d", page, i)))
		}
		fmt.Fprint(w, "]")
	}))

	summaries, err := p.ListCommits(context.Background(), model.RepoRef{Owner: "octocat", Repo: "hello"}, 0)
	require.NoError(t, err)
	assert.Len(t, summaries, 140)
	assert.Equal(t, fmt.Sprintf("%02d%038d", 1, 0), summaries[0].SHA)
	assert.Equal(t, fmt.Sprintf("%02d%038d", 2, 39), summaries[139].SHA)
}

func TestListCommits_Truncates(t *testing.T) {
	t.Parallel()

	var pagesServed int
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i := 0; i < 100; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprint(w, commitJSON(fmt.Sprintf("%040d", i)))
		}
		fmt.Fprint(w, "]")
	}))

	summaries, err := p.ListCommits(context.Background(), model.RepoRef{Owner: "o", Repo: "r"}, 50)
	require.NoError(t, err)
	assert.Len(t, summaries, 50)
	assert.Equal(t, 1, pagesServed)
}

func TestListCommits_NotFound(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))

	_, err := p.ListCommits(context.Background(), model.RepoRef{Owner: "o", Repo: "r"}, 0)

	var ue *model.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, model.KindNotFound, ue.Kind)
	assert.Equal(t, http.StatusNotFound, ue.Status)
}

func TestGetFileContent(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString([]byte("package main\n"))
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/o/r/contents/main.go", r.URL.Path)
		require.Equal(t, "abc1234", r.URL.Query().Get("ref"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","path":"main.go","size":13,"encoding":"base64","content":%q}`, encoded)
	}))

	file, err := p.GetFileContent(context.Background(), model.RepoRef{Owner: "o", Repo: "r"}, "main.go", "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "main.go", file.Path)
	assert.Equal(t, "package main\n", string(file.Content))
	assert.Equal(t, 13, file.Size)
}

func TestMapCommit(t *testing.T) {
	t.Parallel()

	authored := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	committed := authored.Add(time.Hour)

	raw := mapCommit(&github.RepositoryCommit{
		SHA:    github.String("a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0"),
		Author: &github.User{Login: github.String("octocat")},
		Commit: &github.Commit{
			Message: github.String("fix: things\n\ndetails"),
			Author: &github.CommitAuthor{
				Name: github.String("The Octocat"),
				Date: &github.Timestamp{Time: authored},
			},
			Committer: &github.CommitAuthor{
				Date: &github.Timestamp{Time: committed},
			},
		},
		Files: []*github.CommitFile{
			{
				Filename:  github.String("src/app.ts"),
				Status:    github.String("modified"),
				Additions: github.Int(5),
				Deletions: github.Int(2),
				Changes:   github.Int(7),
				Patch:     github.String("@@ -1 +1 @@"),
			},
		},
	})

	assert.Equal(t, "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0", raw.SHA)
	assert.Equal(t, "octocat", raw.AuthorLogin)
	assert.Equal(t, "The Octocat", raw.AuthorName)
	assert.Equal(t, authored.Format(time.RFC3339), raw.AuthorDate)
	assert.Equal(t, committed.Format(time.RFC3339), raw.CommitterDate)
	assert.Equal(t, "fix: things\n\ndetails", raw.Message)

	require.Len(t, raw.Files, 1)
	assert.Equal(t, "src/app.ts", raw.Files[0].Filename)
	assert.Equal(t, "modified", raw.Files[0].Status)
	assert.Equal(t, 7, raw.Files[0].Changes)
}

func TestMapCommit_Sparse(t *testing.T) {
	t.Parallel()

	raw := mapCommit(&github.RepositoryCommit{SHA: github.String("deadbee")})
	assert.Equal(t, "deadbee", raw.SHA)
	assert.Empty(t, raw.AuthorName)
	assert.Empty(t, raw.AuthorDate)
	assert.Empty(t, raw.Files)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.KindNotFound, KindOf(http.StatusNotFound))
	assert.Equal(t, model.KindUnauthorized, KindOf(http.StatusUnauthorized))
	assert.Equal(t, model.KindForbidden, KindOf(http.StatusForbidden))
	assert.Equal(t, model.KindUnprocessable, KindOf(http.StatusUnprocessableEntity))
	assert.Equal(t, model.KindInternal, KindOf(http.StatusBadGateway))
}

func errorResponse(status int, header http.Header) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status, Header: header},
		Message:  "upstream said no",
	}
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	reset := time.Now().Add(20 * time.Minute).Truncate(time.Second)

	t.Run("primary rate limit", func(t *testing.T) {
		ue := translateError(&github.RateLimitError{
			Rate: github.Rate{Reset: github.Timestamp{Time: reset}},
		})
		assert.Equal(t, model.KindRateLimited, ue.Kind)
		assert.Equal(t, reset, ue.RateLimitReset)
	})

	t.Run("secondary rate limit", func(t *testing.T) {
		retryAfter := 90 * time.Second
		ue := translateError(&github.AbuseRateLimitError{RetryAfter: &retryAfter})
		assert.Equal(t, model.KindRateLimited, ue.Kind)
		assert.WithinDuration(t, time.Now().Add(retryAfter), ue.RateLimitReset, 5*time.Second)
	})

	t.Run("exhausted quota behind 403", func(t *testing.T) {
		header := http.Header{}
		header.Set("X-Ratelimit-Remaining", "0")
		header.Set("X-Ratelimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		ue := translateError(errorResponse(http.StatusForbidden, header))
		assert.Equal(t, model.KindRateLimited, ue.Kind)
		assert.Equal(t, reset.Unix(), ue.RateLimitReset.Unix())
	})

	t.Run("plain 403 stays forbidden", func(t *testing.T) {
		ue := translateError(errorResponse(http.StatusForbidden, http.Header{}))
		assert.Equal(t, model.KindForbidden, ue.Kind)
	})

	t.Run("status mapping", func(t *testing.T) {
		assert.Equal(t, model.KindNotFound, translateError(errorResponse(http.StatusNotFound, http.Header{})).Kind)
		assert.Equal(t, model.KindUnauthorized, translateError(errorResponse(http.StatusUnauthorized, http.Header{})).Kind)
		assert.Equal(t, model.KindUnprocessable, translateError(errorResponse(http.StatusUnprocessableEntity, http.Header{})).Kind)
	})

	t.Run("deadline", func(t *testing.T) {
		ue := translateError(fmt.Errorf("doing request: %w", context.DeadlineExceeded))
		assert.Equal(t, model.KindTimeout, ue.Kind)
	})

	t.Run("unknown", func(t *testing.T) {
		ue := translateError(errors.New("boom"))
		assert.Equal(t, model.KindInternal, ue.Kind)
		assert.Equal(t, "boom", ue.Message)
	})
}
