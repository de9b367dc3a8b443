package model

import (
	"fmt"
	"time"
)

// UpstreamKind classifies a GitHub API failure. It is assigned once at the
// provider boundary and switched on downstream, never inferred from the error
// text.
type UpstreamKind string

const (
	KindNotFound      UpstreamKind = "not_found"     // 404, repository missing or private
	KindRateLimited   UpstreamKind = "rate_limited"  // 403 with exhausted rate limit
	KindForbidden     UpstreamKind = "forbidden"     // 403, permissions
	KindUnauthorized  UpstreamKind = "unauthorized"  // 401, bad token
	KindUnprocessable UpstreamKind = "unprocessable" // 422, invalid or empty repository
	KindTimeout       UpstreamKind = "timeout"
	KindNetwork       UpstreamKind = "network"
	KindInternal      UpstreamKind = "internal"
)

// UpstreamError is the closed error variant produced by the GitHub provider
type UpstreamError struct {
	Kind           UpstreamKind
	Status         int
	Message        string
	RateLimitReset time.Time // set only for KindRateLimited
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github api: %s (status %d)", e.Message, e.Status)
	}
	return "github api: " + e.Message
}
