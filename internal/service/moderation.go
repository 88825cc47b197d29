package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrContentRejected is returned verbatim to clients when submitted text
// violates the content policy.
var ErrContentRejected = errors.New("content rejected by moderation policy")

// ModerationResult is the verdict of a content check. Blocked text is
// rejected outright; flagged text goes through but leaves a trace for
// manual review.
type ModerationResult struct {
	Blocked bool
	Flagged bool
	Reason  string
}

// ContentChecker examines user-submitted text.
type ContentChecker interface {
	Check(ctx context.Context, text string) (ModerationResult, error)
}

// Moderator gates user-generated text through a ContentChecker. Checker
// failures are treated as clean: moderation degrades open, it never takes
// submissions down with it.
type Moderator struct {
	checker ContentChecker
	logger  *slog.Logger
}

// NewModerator creates a Moderator around the given checker.
func NewModerator(checker ContentChecker, logger *slog.Logger) *Moderator {
	return &Moderator{checker: checker, logger: logger}
}

// Review checks text and returns ErrContentRejected when it is blocked.
// Flagged text passes with a logged side effect.
func (m *Moderator) Review(ctx context.Context, text string) error {
	if m == nil || m.checker == nil {
		return nil
	}
	result, err := m.checker.Check(ctx, text)
	if err != nil {
		m.logger.Warn("content check failed, allowing submission", "error", err)
		return nil
	}
	if result.Blocked {
		return ErrContentRejected
	}
	if result.Flagged {
		m.logger.Info("content flagged for review", "reason", result.Reason)
	}
	return nil
}

// keywordChecker is the built-in ContentChecker: a static word-list scan.
type keywordChecker struct {
	blocked []string
	flagged []string
}

// NewKeywordChecker creates a list-based checker. Matching is
// case-insensitive substring containment.
func NewKeywordChecker(blocked, flagged []string) ContentChecker {
	return &keywordChecker{blocked: blocked, flagged: flagged}
}

func (c *keywordChecker) Check(_ context.Context, text string) (ModerationResult, error) {
	lowered := strings.ToLower(text)
	for _, w := range c.blocked {
		if w != "" && strings.Contains(lowered, strings.ToLower(w)) {
			return ModerationResult{Blocked: true, Reason: "blocked term: " + w}, nil
		}
	}
	for _, w := range c.flagged {
		if w != "" && strings.Contains(lowered, strings.ToLower(w)) {
			return ModerationResult{Flagged: true, Reason: "flagged term: " + w}, nil
		}
	}
	return ModerationResult{}, nil
}
