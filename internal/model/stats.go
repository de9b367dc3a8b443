package model

// FileType is a coarse classification of a changed file
type FileType string

const (
	FileTypeBackend  FileType = "Backend"
	FileTypeFrontend FileType = "Frontend"
	FileTypeSchema   FileType = "Schema"
	FileTypeInfra    FileType = "Infra"
	FileTypeOther    FileType = "Other"
)

// CodebaseStats is derived from the full commit sequence on every analysis run
// and never persisted
type CodebaseStats struct {
	TotalFiles        int                `json:"totalFiles"` // unique file paths seen
	TotalLines        int                `json:"totalLines"` // additions+deletions across all changes
	Languages         []LanguageStats    `json:"languages"`  // sorted by lines desc
	FileTypes         []FileTypeStats    `json:"fileTypes"`  // sorted by count desc
	Contributors      []ContributorStats `json:"contributors"`
	CommitFrequency   CommitFrequency    `json:"commitFrequency"`
	AverageCommitSize float64            `json:"averageCommitSize"` // mean files per commit
	LargestCommit     LargestCommit      `json:"largestCommit"`
	MostActiveDay     int                `json:"mostActiveDay"`  // day of week, 0=Sunday
	MostActiveHour    int                `json:"mostActiveHour"` // 0..23
}

// LanguageStats aggregates changes per detected language
type LanguageStats struct {
	Language   string  `json:"language"`
	Files      int     `json:"files"`
	Lines      int     `json:"lines"`
	Percentage float64 `json:"percentage"`
}

// FileTypeStats aggregates changes per file type bucket
type FileTypeStats struct {
	Type       FileType `json:"type"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
}

// ContributorStats aggregates activity per commit author
type ContributorStats struct {
	Author       string  `json:"author"`
	Commits      int     `json:"commits"`
	LinesAdded   int     `json:"linesAdded"`
	LinesDeleted int     `json:"linesDeleted"`
	Percentage   float64 `json:"percentage"` // share of total commits
}

// CommitFrequency is commits per unit of time over the analyzed span
type CommitFrequency struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// LargestCommit is the commit with the most changed files, ties broken by
// total changed lines
type LargestCommit struct {
	SHA   string `json:"sha"`
	Files int    `json:"files"`
	Lines int    `json:"lines"`
}
