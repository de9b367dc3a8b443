package model

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	URL        string `json:"url"`
	MaxCommits int    `json:"maxCommits,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}

// AnalyzeResult is a full (non-paginated) analysis, the unit stored in the
// result cache
type AnalyzeResult struct {
	RepoURL string        `json:"repoUrl"`
	Commits []CommitItem  `json:"commits"` // ascending by timestamp
	Stats   CodebaseStats `json:"codebaseStats"`
}

// AnalyzeResponse is one page of an analysis
type AnalyzeResponse struct {
	RepoURL       string         `json:"repoUrl"`
	Count         int            `json:"count"`
	Commits       []CommitItem   `json:"commits"`
	CodebaseStats *CodebaseStats `json:"codebaseStats,omitempty"`
	Pagination    *Pagination    `json:"pagination,omitempty"`
}

// Pagination describes the slice of the sorted commit sequence returned in a
// response
type Pagination struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalCommits int `json:"totalCommits"`
}

// CommitDetail is the response of GET /api/commit/{owner}/{repo}/{sha}
type CommitDetail struct {
	SHA     string             `json:"sha"`
	Author  string             `json:"author"`
	Date    string             `json:"date"`
	Message string             `json:"message"`
	Files   []CommitDetailFile `json:"files"`
}

// CommitDetailFile is a per-file entry of a commit detail response. Content is
// populated only when the caller asked for it; Error carries a per-file
// explanation when content could not be shown (binary, too large).
type CommitDetailFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
	Content   string `json:"content,omitempty"`
	Size      int    `json:"size,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
	Error     string `json:"error,omitempty"`
}

// APIError is the uniform error body of the HTTP API
type APIError struct {
	Error      string `json:"error"`
	Status     int    `json:"status,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"` // seconds, rate limit responses only
}

// HealthStatus is the response of GET /health
type HealthStatus struct {
	OK        bool       `json:"ok"`
	Timestamp string     `json:"timestamp"`
	Version   string     `json:"version"`
	Cache     CacheStats `json:"cache"`
	GitHub    string     `json:"github"` // "reachable" or "unreachable"
}

// CacheStats reports result cache occupancy
type CacheStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
}
