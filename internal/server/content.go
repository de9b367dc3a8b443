package server

import (
	"bytes"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/maxbolgarin/devstory/internal/model"
)

const (
	maxFetchSize   = 1 << 20 // refuse to fetch files above 1 MiB
	maxDisplaySize = 500 << 10
)

// binaryExtensions lists file types never shown as text
var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".ico": {},
	".pdf": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".7z": {}, ".rar": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {}, ".wasm": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {}, ".eot": {},
	".mp3": {}, ".mp4": {}, ".mov": {}, ".avi": {}, ".sqlite": {},
}

// attachFileContents populates Content for every displayable file of a commit
// detail. Failures are per-file: a binary or oversized file gets an Error
// message while the rest of the response stays intact. Deleted files have no
// content at the commit's ref and are skipped.
func (s *Server) attachFileContents(r *http.Request, ref model.RepoRef, sha string, detail *model.CommitDetail) {
	for i := range detail.Files {
		f := &detail.Files[i]
		if f.Status == "removed" {
			continue
		}
		if isBinaryPath(f.Filename) {
			f.Error = "Binary file content is not shown"
			continue
		}

		content, err := s.provider.GetFileContent(r.Context(), ref, f.Filename, sha)
		if err != nil {
			s.log.Debug("file content fetch failed", "file", f.Filename, "error", err)
			f.Error = "File content not available"
			continue
		}

		f.Size = content.Size
		if content.Size > maxFetchSize {
			f.Error = "File too large to display (" + humanize.IBytes(uint64(content.Size)) + ")"
			continue
		}
		if bytes.IndexByte(content.Content, 0) >= 0 {
			f.Error = "Binary file content is not shown"
			continue
		}

		data := content.Content
		if len(data) > maxDisplaySize {
			data = data[:maxDisplaySize]
			f.Truncated = true
			f.Error = "Showing first " + humanize.IBytes(maxDisplaySize) +
				" of " + humanize.IBytes(uint64(content.Size))
		}
		f.Content = string(data)
	}
}

func isBinaryPath(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	_, ok := binaryExtensions[ext]
	return ok
}
