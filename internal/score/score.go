// Package score derives recency and authority scores for article records
// and combines them into a default sort rank.
package score

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"mediawatch/internal/config"
	"mediawatch/internal/domain"
)

// Entry is one outlet's reputation: authority score in [0,1] plus tier.
type Entry struct {
	Score float64
	Tier  domain.Tier
}

// ReputationTable is an immutable outlet-name lookup, loaded once at
// process start. Lookups are case-insensitive and tolerant of punctuation
// and a leading "The".
type ReputationTable struct {
	entries      map[string]Entry
	sortedKeys   []string
	defaultEntry Entry
}

// NewReputationTable builds the lookup from configuration entries.
func NewReputationTable(entries []config.ReputationEntry, defaultScore float64, defaultTier domain.Tier) *ReputationTable {
	table := &ReputationTable{
		entries:      make(map[string]Entry, len(entries)),
		defaultEntry: Entry{Score: defaultScore, Tier: defaultTier},
	}
	for _, e := range entries {
		key := normalizeName(e.Name)
		if key == "" {
			continue
		}
		table.entries[key] = Entry{Score: clamp01(e.Score), Tier: tierFromString(e.Tier)}
	}

	table.sortedKeys = make([]string, 0, len(table.entries))
	for key := range table.entries {
		table.sortedKeys = append(table.sortedKeys, key)
	}
	// Longest keys first so "bbc news" wins over "bbc" on substring matches,
	// with the alphabetical tiebreak keeping lookups deterministic.
	sort.Slice(table.sortedKeys, func(i, j int) bool {
		a, b := table.sortedKeys[i], table.sortedKeys[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return table
}

// Lookup resolves an outlet name to its reputation entry. Unmatched
// sources get the configured default; lookup never fails.
func (t *ReputationTable) Lookup(sourceName string) Entry {
	name := normalizeName(sourceName)
	if name == "" {
		return t.defaultEntry
	}

	if entry, ok := t.entries[name]; ok {
		return entry
	}
	for _, key := range t.sortedKeys {
		if strings.Contains(name, key) {
			return t.entries[key]
		}
	}

	return t.defaultEntry
}

// Policy pins the scoring constants; all of them come from configuration,
// never inline literals.
type Policy struct {
	RecencyWindow   time.Duration
	UnknownRecency  float64
	RecencyWeight   float64
	AuthorityWeight float64
}

// PolicyFromConfig maps the scoring section onto a Policy.
func PolicyFromConfig(cfg config.ScoringConfig) Policy {
	window := cfg.RecencyWindowDays
	if window <= 0 {
		window = 7
	}
	return Policy{
		RecencyWindow:   time.Duration(window) * 24 * time.Hour,
		UnknownRecency:  clamp01(cfg.UnknownRecency),
		RecencyWeight:   cfg.RecencyWeight,
		AuthorityWeight: cfg.AuthorityWeight,
	}
}

// Scorer computes recency_score, authority_score, tier, and the combined
// rank. Scoring always produces a value; malformed inputs degrade to
// defaults rather than failing.
type Scorer struct {
	table  *ReputationTable
	policy Policy
	now    func() time.Time
}

// NewScorer builds a scorer around an immutable reputation table.
func NewScorer(table *ReputationTable, policy Policy) *Scorer {
	if policy.RecencyWeight <= 0 && policy.AuthorityWeight <= 0 {
		policy.RecencyWeight = 0.5
		policy.AuthorityWeight = 0.5
	}
	return &Scorer{table: table, policy: policy, now: time.Now}
}

// Recency maps article age onto [0,1]: 1 at zero age, linear decay to 0 at
// the window edge, 0 beyond. Unknown dates get the configured default.
func (s *Scorer) Recency(publishedAt time.Time) float64 {
	if publishedAt.IsZero() {
		return s.policy.UnknownRecency
	}

	age := s.now().Sub(publishedAt)
	if age < 0 {
		age = 0
	}
	if age >= s.policy.RecencyWindow {
		return 0
	}
	return clamp01(1 - float64(age)/float64(s.policy.RecencyWindow))
}

// Score annotates every record with scores, tier, and rank, then sorts the
// slice by rank, newest-first on ties.
func (s *Scorer) Score(records []domain.ArticleRecord) []domain.ArticleRecord {
	total := s.policy.RecencyWeight + s.policy.AuthorityWeight

	for i := range records {
		rec := &records[i]
		entry := s.table.Lookup(rec.SourceName)

		rec.RecencyScore = s.Recency(rec.PublishedAt)
		rec.AuthorityScore = entry.Score
		rec.Tier = entry.Tier
		rec.Rank = (s.policy.RecencyWeight*rec.RecencyScore + s.policy.AuthorityWeight*rec.AuthorityScore) / total
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Rank != records[j].Rank {
			return records[i].Rank > records[j].Rank
		}
		return records[i].PublishedAt.After(records[j].PublishedAt)
	})

	return records
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	normalized := strings.Join(strings.Fields(b.String()), " ")
	normalized = strings.TrimPrefix(normalized, "the ")
	return normalized
}

func tierFromString(value string) domain.Tier {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "top":
		return domain.TierTop
	case "mid":
		return domain.TierMid
	case "excluded":
		return domain.TierExcluded
	default:
		return domain.TierTrade
	}
}

// TierFromString resolves a configured tier name, defaulting to trade.
func TierFromString(value string) domain.Tier {
	return tierFromString(value)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
