package analyzer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/maxbolgarin/devstory/internal/model"
	"github.com/maxbolgarin/errm"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ParseRepoURL extracts {owner, repo} from a GitHub repository URL. Only
// github.com hosts are accepted; a trailing ".git" and surrounding slashes are
// stripped from the path. No network I/O.
func ParseRepoURL(rawURL string) (model.RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return model.RepoRef{}, errm.Wrap(err, "invalid GitHub URL")
	}

	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return model.RepoRef{}, errm.New("only github.com URLs are supported")
	}

	path := strings.TrimSuffix(u.Path, ".git")
	path = strings.Trim(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return model.RepoRef{}, errm.New("invalid GitHub repo URL")
	}

	ref := model.RepoRef{Owner: parts[0], Repo: parts[1]}
	if !nameRe.MatchString(ref.Owner) || !nameRe.MatchString(ref.Repo) {
		return model.RepoRef{}, errm.New("invalid owner or repository name")
	}

	return ref, nil
}

// SanitizeRepoURL normalizes user input before analysis and cache lookup:
// trims spaces, a trailing slash and the ".git" suffix
func SanitizeRepoURL(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	return s
}
