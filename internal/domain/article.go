package domain

import "time"

// Tier is the editorial-reputation bucket assigned to a news source.
type Tier string

const (
	TierTop      Tier = "top"
	TierMid      Tier = "mid"
	TierTrade    Tier = "trade"
	TierExcluded Tier = "excluded"
)

// SentimentLabel classifies the overall polarity of an article's text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ArticleRecord is the central entity flowing through the pipeline.
// Fetchers create it partially populated, the extraction chain fills
// BodyText, the scorer derives scores and tier, and the sentiment tagger
// sets Sentiment. Nothing mutates a record once it reaches the renderer.
type ArticleRecord struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at"` // zero means unknown
	BodyText    string    `json:"body_text,omitempty"`
	ExtractedBy string    `json:"extracted_by,omitempty"`

	RecencyScore   float64        `json:"recency_score"`
	AuthorityScore float64        `json:"authority_score"`
	Rank           float64        `json:"rank"`
	Tier           Tier           `json:"tier,omitempty"`
	Sentiment      SentimentLabel `json:"sentiment,omitempty"`

	Included bool `json:"included_in_report"`
}

// MonitorRun is one completed keyword search with its scored results.
type MonitorRun struct {
	ID                 string          `json:"id"`
	Keywords           []string        `json:"keywords"`
	StartedAt          time.Time       `json:"started_at"`
	Articles           []ArticleRecord `json:"articles"`
	ExtractionFailures int             `json:"extraction_failures"`
}

// RunSummary is the persisted digest of a run, without article bodies.
type RunSummary struct {
	ID           string
	Keywords     []string
	StartedAt    time.Time
	ArticleCount int
}
