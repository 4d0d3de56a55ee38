package sentiment

import (
	"testing"

	"mediawatch/internal/domain"
)

func TestLabelPolarity(t *testing.T) {
	t.Parallel()

	tagger := NewTagger()

	label, compound := tagger.Label("The results were excellent, a wonderful and amazing success.")
	if label != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s (compound %v)", label, compound)
	}
	if compound < 0.05 {
		t.Fatalf("compound %v should clear the positive threshold", compound)
	}

	label, compound = tagger.Label("The disaster was horrible, a terrible and catastrophic failure.")
	if label != domain.SentimentNegative {
		t.Fatalf("expected negative, got %s (compound %v)", label, compound)
	}
	if compound > -0.05 {
		t.Fatalf("compound %v should clear the negative threshold", compound)
	}

	if label, _ = tagger.Label(""); label != domain.SentimentNeutral {
		t.Fatalf("empty text should be neutral, got %s", label)
	}
}

func TestLabelDeterministic(t *testing.T) {
	t.Parallel()

	tagger := NewTagger()
	text := "Shares fell sharply after the company warned of weaker profits."

	_, first := tagger.Label(text)
	_, second := tagger.Label(text)
	if first != second {
		t.Fatalf("same text produced different compounds: %v vs %v", first, second)
	}
	if first < -1 || first > 1 {
		t.Fatalf("compound out of range: %v", first)
	}
}

func TestTagPrefersBodyText(t *testing.T) {
	t.Parallel()

	tagger := NewTagger()
	records := []domain.ArticleRecord{
		{Title: "Horrible disaster strikes", BodyText: "A wonderful, excellent outcome delighted everyone."},
		{Title: "Wonderful win for the team"},
	}

	got := tagger.Tag(records)

	if got[0].Sentiment != domain.SentimentPositive {
		t.Fatalf("body text should drive the label, got %s", got[0].Sentiment)
	}
	if got[1].Sentiment != domain.SentimentPositive {
		t.Fatalf("title fallback should drive the label, got %s", got[1].Sentiment)
	}
}
