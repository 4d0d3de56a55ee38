// Package sentiment tags article text with a polarity label using VADER.
// Deterministic and purely local: no external calls.
package sentiment

import (
	govader "github.com/jonreiter/govader"

	"mediawatch/internal/domain"
)

// Label thresholds on the compound score, per the standard VADER
// convention.
const (
	defaultPositiveThreshold = 0.05
	defaultNegativeThreshold = -0.05
)

// Tagger classifies text into Positive/Neutral/Negative from the VADER
// compound score in [-1,1].
type Tagger struct {
	analyzer *govader.SentimentIntensityAnalyzer
	positive float64
	negative float64
}

// NewTagger builds a tagger with the default thresholds.
func NewTagger() *Tagger {
	return &Tagger{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		positive: defaultPositiveThreshold,
		negative: defaultNegativeThreshold,
	}
}

// Label scores a single text and maps the compound score onto a label.
func (t *Tagger) Label(text string) (domain.SentimentLabel, float64) {
	if text == "" {
		return domain.SentimentNeutral, 0
	}

	compound := t.analyzer.PolarityScores(text).Compound
	switch {
	case compound >= t.positive:
		return domain.SentimentPositive, compound
	case compound <= t.negative:
		return domain.SentimentNegative, compound
	default:
		return domain.SentimentNeutral, compound
	}
}

// Tag annotates every record, preferring body text and falling back to the
// title when extraction produced nothing.
func (t *Tagger) Tag(records []domain.ArticleRecord) []domain.ArticleRecord {
	for i := range records {
		text := records[i].BodyText
		if text == "" {
			text = records[i].Title
		}
		records[i].Sentiment, _ = t.Label(text)
	}
	return records
}
