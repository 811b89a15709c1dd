// Package ratelimit implements per-key fixed-window quotas.
package ratelimit

import (
	"context"
	"time"
)

// Rule allows Limit requests per Window for a single key. Unit names what
// is being counted in client-facing messages.
type Rule struct {
	Limit  int
	Window time.Duration
	Unit   string
}

var (
	// UploadRule bounds OCR uploads per user.
	UploadRule = Rule{Limit: 10, Window: time.Hour, Unit: "uploads"}
	// ProfileUpdateRule bounds profile edits per user.
	ProfileUpdateRule = Rule{Limit: 5, Window: 5 * time.Minute, Unit: "updates"}
)

type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether one more request for key fits in the current window.
// A rejected request does not consume quota.
type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Decision, error)
}
