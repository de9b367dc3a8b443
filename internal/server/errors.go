package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/maxbolgarin/devstory/internal/model"
)

// translateError maps pipeline failures to an HTTP status and a user-facing
// message. Upstream failures arrive as the closed model.UpstreamError variant;
// anything else is an internal error.
func translateError(err error) (int, string) {
	var ue *model.UpstreamError
	if !errors.As(err, &ue) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch ue.Kind {
	case model.KindNotFound:
		return http.StatusNotFound, "Repository not found or is private"

	case model.KindRateLimited:
		if !ue.RateLimitReset.IsZero() {
			minutes := int(time.Until(ue.RateLimitReset).Minutes()) + 1
			if minutes < 1 {
				minutes = 1
			}
			return http.StatusForbidden, fmt.Sprintf(
				"GitHub API rate limit exceeded. Try again in %d minutes or add a GITHUB_TOKEN.", minutes)
		}
		return http.StatusForbidden, "GitHub API rate limit exceeded. Try again later or add a GITHUB_TOKEN."

	case model.KindForbidden:
		return http.StatusForbidden, "Access forbidden"

	case model.KindUnauthorized:
		return http.StatusUnauthorized, "Invalid GitHub token"

	case model.KindUnprocessable:
		return http.StatusBadRequest, "Repository is invalid or empty"

	case model.KindTimeout:
		return http.StatusGatewayTimeout, "Request to GitHub timed out"

	case model.KindNetwork:
		return http.StatusBadGateway, "Network error while contacting GitHub"
	}

	return http.StatusInternalServerError, "Internal server error"
}
