package domain

import "errors"

// Failure kinds crossing component boundaries. Each failure is isolated
// to the smallest unit: one source, one article, one strategy. Only
// ErrRenderFailed is surfaced to the user as an explicit error.
var (
	// ErrFetchUnavailable marks a source as unreachable or rate-limited;
	// the search proceeds with zero records from that source.
	ErrFetchUnavailable = errors.New("source unavailable")

	// ErrExtractionFailed marks a single extraction strategy (or the whole
	// chain) as unable to produce usable text for one article.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrRenderFailed marks report generation as failed; no partial file
	// is delivered and the operation may be retried.
	ErrRenderFailed = errors.New("report rendering failed")
)
