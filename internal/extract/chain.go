// Package extract populates body text for records that lack it, trying an
// ordered list of extraction strategies until one produces usable text.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mediawatch/internal/domain"
)

// Result carries the plain text a strategy produced, plus a publish date
// when the page exposed one.
type Result struct {
	Text        string
	PublishedAt time.Time
}

// Strategy is one method of deriving plain body text from an article URL.
// Implementations issue their own bounded-timeout fetch and convert every
// failure to domain.ErrExtractionFailed.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, articleURL string) (Result, error)
}

// Chain tries strategies in order and stops at the first that returns text
// above the minimum length. Extraction is advisory, not blocking: when the
// whole chain fails the record degrades to headline-only display.
type Chain struct {
	strategies []Strategy
	minLength  int
	logger     *slog.Logger
}

// NewChain wires the ordered strategies with the minimum-length policy.
func NewChain(minLength int, logger *slog.Logger, strategies ...Strategy) *Chain {
	if minLength <= 0 {
		minLength = 200
	}
	return &Chain{strategies: strategies, minLength: minLength, logger: logger}
}

// Run returns the first usable result and the name of the strategy that
// produced it. When every strategy fails it returns domain.ErrExtractionFailed.
func (c *Chain) Run(ctx context.Context, articleURL string) (Result, string, error) {
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, "", err
		}

		res, err := strategy.Extract(ctx, articleURL)
		if err != nil {
			c.debug("strategy failed", "strategy", strategy.Name(), "url", articleURL, "error", err)
			continue
		}

		res.Text = cleanText(res.Text)
		if len(res.Text) < c.minLength {
			c.debug("text below threshold", "strategy", strategy.Name(), "url", articleURL, "length", len(res.Text))
			continue
		}

		return res, strategy.Name(), nil
	}

	return Result{}, "", fmt.Errorf("%w: %s", domain.ErrExtractionFailed, articleURL)
}

func (c *Chain) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
