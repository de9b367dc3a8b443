package server

import (
	"io"
	"math"
	"net/http"
	"regexp"
	"time"

	"github.com/maxbolgarin/devstory/internal/analyzer"
	"github.com/maxbolgarin/devstory/internal/model"
)

const (
	maxRequestBody = 1 << 20 // 1 MiB

	maxCommitsCeiling = 1000
	defaultPageSize   = 30
	maxPageSize       = 100
)

var (
	nameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	shaRe  = regexp.MustCompile(`^[a-fA-F0-9]{7,40}$`)
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req model.AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, `Missing or invalid "url" in request body`)
		return
	}
	if _, err := analyzer.ParseRepoURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid GitHub repository URL. Must be in format: https://github.com/owner/repo")
		return
	}
	if req.MaxCommits < 0 || req.MaxCommits > maxCommitsCeiling {
		writeError(w, http.StatusBadRequest, "maxCommits must be between 1 and 1000")
		return
	}
	if req.Page < 0 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	if req.PageSize < 0 || req.PageSize > maxPageSize {
		writeError(w, http.StatusBadRequest, "pageSize must be between 1 and 100")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL, req.MaxCommits)
	if err != nil {
		status, message := translateError(err)
		s.log.Err(err, "analysis failed", "repo_url", req.URL, "status", status)
		writeJSON(w, status, model.APIError{Error: message, Status: status})
		return
	}

	writeJSON(w, http.StatusOK, paginate(result, req.Page, req.PageSize))
}

// paginate slices the sorted commit sequence of a full analysis into one
// response page. Stats cover the whole analysis, not the page.
func paginate(result *model.AnalyzeResult, page, pageSize int) model.AnalyzeResponse {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(result.Commits)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)

	stats := result.Stats
	return model.AnalyzeResponse{
		RepoURL:       result.RepoURL,
		Count:         end - start,
		Commits:       result.Commits[start:end],
		CodebaseStats: &stats,
		Pagination: &model.Pagination{
			Page:         page,
			PageSize:     pageSize,
			TotalPages:   totalPages,
			TotalCommits: total,
		},
	}
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	ref := model.RepoRef{Owner: r.PathValue("owner"), Repo: r.PathValue("repo")}
	sha := r.PathValue("sha")

	if !nameRe.MatchString(ref.Owner) || !nameRe.MatchString(ref.Repo) {
		writeError(w, http.StatusBadRequest, "Invalid owner or repository name format")
		return
	}
	if !shaRe.MatchString(sha) {
		writeError(w, http.StatusBadRequest, "Invalid commit SHA format")
		return
	}

	raw, err := s.provider.GetCommit(r.Context(), ref, sha)
	if err != nil {
		status, message := translateError(err)
		s.log.Err(err, "commit fetch failed", "repo", ref.String(), "sha", sha, "status", status)
		writeJSON(w, status, model.APIError{Error: message, Status: status})
		return
	}

	detail := mapCommitDetail(raw)
	if r.URL.Query().Get("includeContent") == "true" {
		s.attachFileContents(r, ref, raw.SHA, detail)
	}

	writeJSON(w, http.StatusOK, detail)
}

func mapCommitDetail(raw *model.RawCommit) *model.CommitDetail {
	detail := &model.CommitDetail{
		SHA:     raw.SHA,
		Author:  raw.AuthorName,
		Date:    raw.AuthorDate,
		Message: raw.Message,
	}
	for _, f := range raw.Files {
		detail.Files = append(detail.Files, model.CommitDetailFile{
			Filename:  f.Filename,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
			Changes:   f.Changes,
			Patch:     f.Patch,
		})
	}
	return detail
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	github := "reachable"
	if err := s.provider.Ping(r.Context()); err != nil {
		s.log.Warn("github reachability probe failed", "error", err)
		github = "unreachable"
	}

	writeJSON(w, http.StatusOK, model.HealthStatus{
		OK:        true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Cache:     s.cache.Stats(),
		GitHub:    github,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "DevStory API",
		"version":     Version,
		"description": "GitHub repository analysis API",
		"endpoints": map[string]string{
			"health":  "GET /health",
			"analyze": "POST /api/analyze",
			"commit":  "GET /api/commit/{owner}/{repo}/{sha}",
			"info":    "GET /api/info",
		},
	})
}
