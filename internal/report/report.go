// Package report lays out selected, scored records into a .docx document
// grouped by source tier.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/gingfrederik/docx"

	"mediawatch/internal/domain"
)

// Options controls one render.
type Options struct {
	Title            string
	GeneratedAt      time.Time
	IncludeSentiment bool
}

var tierOrder = []domain.Tier{domain.TierTop, domain.TierMid, domain.TierTrade}

var tierHeadings = map[domain.Tier]string{
	domain.TierTop:   "Top-tier coverage",
	domain.TierMid:   "Mid-tier coverage",
	domain.TierTrade: "Trade and other coverage",
}

// Render writes the report document to path. Only records that are both
// selected and in a non-excluded tier appear; within each tier records are
// sorted by rank. On failure no partial file is considered delivered and
// the caller may retry.
func Render(records []domain.ArticleRecord, opts Options, path string) error {
	groups := groupForReport(records)

	if opts.Title == "" {
		opts.Title = "Media Monitoring Report"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	f := docx.NewFile()

	heading := f.AddParagraph().AddText(opts.Title)
	heading.Size(16)
	f.AddParagraph().AddText("Generated " + opts.GeneratedAt.Format("2 January 2006 15:04"))
	f.AddParagraph()

	total := 0
	for _, tier := range tierOrder {
		tierRecords := groups[tier]
		if len(tierRecords) == 0 {
			continue
		}
		total += len(tierRecords)

		section := f.AddParagraph().AddText(tierHeadings[tier])
		section.Size(13)

		for _, rec := range tierRecords {
			writeRecord(f, rec, opts.IncludeSentiment)
		}
		f.AddParagraph()
	}

	if total == 0 {
		f.AddParagraph().AddText("No articles were selected for this report.")
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	return nil
}

func writeRecord(f *docx.File, rec domain.ArticleRecord, includeSentiment bool) {
	title := f.AddParagraph().AddText(rec.Title)
	title.Size(11)

	meta := rec.SourceName
	if !rec.PublishedAt.IsZero() {
		meta += " | " + rec.PublishedAt.Format("2 Jan 2006")
	}
	meta += fmt.Sprintf(" | recency %.2f | authority %.2f", rec.RecencyScore, rec.AuthorityScore)
	if includeSentiment && rec.Sentiment != "" {
		meta += " | sentiment " + string(rec.Sentiment)
	}
	f.AddParagraph().AddText(meta)
	f.AddParagraph().AddText(rec.URL)
}

// groupForReport drops excluded-tier and deselected records, then buckets
// the rest by tier sorted by rank.
func groupForReport(records []domain.ArticleRecord) map[domain.Tier][]domain.ArticleRecord {
	groups := make(map[domain.Tier][]domain.ArticleRecord, len(tierOrder))
	for _, rec := range records {
		if rec.Tier == domain.TierExcluded || !rec.Included {
			continue
		}
		tier := rec.Tier
		if _, ok := tierHeadings[tier]; !ok {
			tier = domain.TierTrade
		}
		groups[tier] = append(groups[tier], rec)
	}

	for tier := range groups {
		recs := groups[tier]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Rank > recs[j].Rank })
	}

	return groups
}
