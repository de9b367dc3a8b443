package analyzer

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/src-d/enry/v2"
)

// languageByExtension is the primary extension table. Extensions missing here
// fall through to enry detection by filename, then to "Other".
var languageByExtension = map[string]string{
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".mjs":   "JavaScript",
	".go":    "Go",
	".py":    "Python",
	".rb":    "Ruby",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".swift": "Swift",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".cs":    "C#",
	".php":   "PHP",
	".css":   "CSS",
	".scss":  "CSS",
	".html":  "HTML",
	".vue":   "Vue",
	".sql":   "SQL",
	".sh":    "Shell",
	".yml":   "YAML",
	".yaml":  "YAML",
	".json":  "JSON",
	".md":    "Markdown",
}

func detectLanguage(file string) string {
	ext := strings.ToLower(path.Ext(file))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	if lang := enry.GetLanguage(path.Base(file), nil); lang != "" && lang != enry.OtherLanguage {
		return lang
	}
	return "Other"
}

// detectFileType buckets a path into Backend/Frontend/Schema/Infra/Other.
// First matching rule wins, checked in that fixed order.
func detectFileType(file string) model.FileType {
	lower := strings.ToLower(file)

	switch {
	case strings.Contains(lower, "/api/"),
		strings.Contains(lower, "/routes/"),
		strings.Contains(lower, "/controllers/"),
		strings.Contains(lower, "/services/"),
		strings.HasSuffix(lower, ".ts") && (strings.Contains(lower, "server") || strings.Contains(lower, "api")),
		strings.HasSuffix(lower, ".js") && !strings.Contains(lower, "component"),
		strings.HasSuffix(lower, ".go"):
		return model.FileTypeBackend

	case strings.Contains(lower, "/app/"),
		strings.Contains(lower, "/pages/"),
		strings.Contains(lower, "/components/"),
		strings.Contains(lower, "/ui/"),
		strings.HasSuffix(lower, ".tsx"),
		strings.HasSuffix(lower, ".jsx"),
		strings.HasSuffix(lower, ".vue"),
		strings.HasSuffix(lower, ".svelte"):
		return model.FileTypeFrontend

	case strings.Contains(lower, "prisma/"),
		strings.HasSuffix(lower, "schema.prisma"),
		strings.HasSuffix(lower, ".sql"),
		strings.Contains(lower, "/migrations/"),
		strings.Contains(lower, "/database/"):
		return model.FileTypeSchema

	case strings.Contains(lower, "dockerfile"),
		strings.HasSuffix(lower, ".yml"),
		strings.HasSuffix(lower, ".yaml"),
		strings.Contains(lower, "/infra/"),
		strings.Contains(lower, "/deploy/"),
		strings.HasSuffix(lower, ".tf"),
		strings.HasSuffix(lower, ".tfvars"):
		return model.FileTypeInfra
	}

	return model.FileTypeOther
}

type langAgg struct {
	files map[string]struct{}
	lines int
}

type contribAgg struct {
	commits      int
	linesAdded   int
	linesDeleted int
}

// computeStats walks the normalized, sorted commit sequence once and derives
// all aggregates. An empty sequence yields zero-valued stats.
func computeStats(commits []model.CommitItem) model.CodebaseStats {
	stats := model.CodebaseStats{
		Languages:    []model.LanguageStats{},
		FileTypes:    []model.FileTypeStats{},
		Contributors: []model.ContributorStats{},
	}
	if len(commits) == 0 {
		return stats
	}

	var (
		languages    = make(map[string]*langAgg)
		fileTypes    = make(map[model.FileType]int)
		contributors = make(map[string]*contribAgg)
		uniqueFiles  = make(map[string]struct{})
		dayCounts    [7]int
		hourCounts   [24]int
		totalLines   int
		totalChanges int
	)

	for _, c := range commits {
		contrib := contributors[c.Author]
		if contrib == nil {
			contrib = &contribAgg{}
			contributors[c.Author] = contrib
		}
		contrib.commits++

		if t := c.Time(); !t.IsZero() {
			dayCounts[int(t.Weekday())]++
			hourCounts[t.Hour()]++
		}

		commitLines := 0
		for _, ch := range c.Changes {
			lines := ch.Additions + ch.Deletions
			totalLines += lines
			commitLines += lines
			totalChanges++
			uniqueFiles[ch.File] = struct{}{}

			contrib.linesAdded += ch.Additions
			contrib.linesDeleted += ch.Deletions

			lang := detectLanguage(ch.File)
			agg := languages[lang]
			if agg == nil {
				agg = &langAgg{files: make(map[string]struct{})}
				languages[lang] = agg
			}
			agg.files[ch.File] = struct{}{}
			agg.lines += lines

			fileTypes[detectFileType(ch.File)]++
		}

		files := len(c.Changes)
		if files > stats.LargestCommit.Files ||
			(files == stats.LargestCommit.Files && commitLines > stats.LargestCommit.Lines) {
			stats.LargestCommit = model.LargestCommit{SHA: c.SHA, Files: files, Lines: commitLines}
		}
	}

	stats.TotalFiles = len(uniqueFiles)
	stats.TotalLines = totalLines
	stats.AverageCommitSize = float64(totalChanges) / float64(len(commits))
	stats.CommitFrequency = commitFrequency(commits)
	stats.MostActiveDay = indexOfMax(dayCounts[:])
	stats.MostActiveHour = indexOfMax(hourCounts[:])

	for lang, agg := range languages {
		ls := model.LanguageStats{Language: lang, Files: len(agg.files), Lines: agg.lines}
		if totalLines > 0 {
			ls.Percentage = float64(agg.lines) / float64(totalLines) * 100
		}
		stats.Languages = append(stats.Languages, ls)
	}
	sort.Slice(stats.Languages, func(i, j int) bool {
		if stats.Languages[i].Lines != stats.Languages[j].Lines {
			return stats.Languages[i].Lines > stats.Languages[j].Lines
		}
		return stats.Languages[i].Language < stats.Languages[j].Language
	})

	for ft, count := range fileTypes {
		fs := model.FileTypeStats{Type: ft, Count: count}
		if totalChanges > 0 {
			fs.Percentage = float64(count) / float64(totalChanges) * 100
		}
		stats.FileTypes = append(stats.FileTypes, fs)
	}
	sort.Slice(stats.FileTypes, func(i, j int) bool {
		if stats.FileTypes[i].Count != stats.FileTypes[j].Count {
			return stats.FileTypes[i].Count > stats.FileTypes[j].Count
		}
		return stats.FileTypes[i].Type < stats.FileTypes[j].Type
	})

	for author, agg := range contributors {
		stats.Contributors = append(stats.Contributors, model.ContributorStats{
			Author:       author,
			Commits:      agg.commits,
			LinesAdded:   agg.linesAdded,
			LinesDeleted: agg.linesDeleted,
			Percentage:   float64(agg.commits) / float64(len(commits)) * 100,
		})
	}
	sort.Slice(stats.Contributors, func(i, j int) bool {
		if stats.Contributors[i].Commits != stats.Contributors[j].Commits {
			return stats.Contributors[i].Commits > stats.Contributors[j].Commits
		}
		return stats.Contributors[i].Author < stats.Contributors[j].Author
	})

	return stats
}

// commitFrequency derives commits per day/week/month from the first and last
// commit timestamps. The span has a floor of one day, week and month spans a
// floor of one unit.
func commitFrequency(commits []model.CommitItem) model.CommitFrequency {
	first := commits[0].Time()
	last := commits[len(commits)-1].Time()

	days := 1.0
	if !first.IsZero() && !last.IsZero() {
		days = math.Max(1, math.Ceil(last.Sub(first).Hours()/24))
	}
	weeks := math.Max(1, days/7)
	months := math.Max(1, days/30)

	total := float64(len(commits))
	return model.CommitFrequency{
		Daily:   total / days,
		Weekly:  total / weeks,
		Monthly: total / months,
	}
}

func indexOfMax(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
