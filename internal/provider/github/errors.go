package github

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/devstory/internal/model"
)

// KindOf maps an HTTP status code to an upstream error kind
func KindOf(status int) model.UpstreamKind {
	switch status {
	case http.StatusNotFound:
		return model.KindNotFound
	case http.StatusUnauthorized:
		return model.KindUnauthorized
	case http.StatusForbidden:
		return model.KindForbidden
	case http.StatusUnprocessableEntity:
		return model.KindUnprocessable
	}
	return model.KindInternal
}

// translateError converts client library failures into the closed
// model.UpstreamError variant. It is the only place upstream errors are
// classified; downstream code switches on Kind.
func translateError(err error) *model.UpstreamError {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &model.UpstreamError{
			Kind:           model.KindRateLimited,
			Status:         http.StatusForbidden,
			Message:        "GitHub API rate limit exceeded",
			RateLimitReset: rateErr.Rate.Reset.Time,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Now()
		if abuseErr.RetryAfter != nil {
			reset = reset.Add(*abuseErr.RetryAfter)
		}
		return &model.UpstreamError{
			Kind:           model.KindRateLimited,
			Status:         http.StatusForbidden,
			Message:        "GitHub API secondary rate limit exceeded",
			RateLimitReset: reset,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		ue := &model.UpstreamError{
			Kind:    KindOf(status),
			Status:  status,
			Message: respErr.Message,
		}

		// a 403 with an exhausted quota is a rate limit, not a permission
		// problem
		if status == http.StatusForbidden && respErr.Response.Header.Get("X-Ratelimit-Remaining") == "0" {
			ue.Kind = model.KindRateLimited
			if resetHeader := respErr.Response.Header.Get("X-Ratelimit-Reset"); resetHeader != "" {
				if unix, parseErr := strconv.ParseInt(resetHeader, 10, 64); parseErr == nil {
					ue.RateLimitReset = time.Unix(unix, 0)
				}
			}
		}
		return ue
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &model.UpstreamError{Kind: model.KindTimeout, Message: "request to GitHub timed out"}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &model.UpstreamError{Kind: model.KindTimeout, Message: "request to GitHub timed out"}
		}
		return &model.UpstreamError{Kind: model.KindNetwork, Message: "network error reaching GitHub: " + netErr.Error()}
	}

	return &model.UpstreamError{Kind: model.KindInternal, Message: err.Error()}
}
