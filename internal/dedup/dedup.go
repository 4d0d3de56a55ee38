// Package dedup collapses records referring to the same article.
package dedup

import (
	"net/url"
	"strings"

	"mediawatch/internal/domain"
)

// Collapse returns one record per distinct article. The dedup key is the
// normalized URL (scheme/host/path, query and fragment stripped), falling
// back to the normalized title when URLs differ. The survivor is the record
// with non-empty body text, preferring the earliest-fetched on ties, and it
// keeps the position of the first occurrence. Pure function; idempotent.
func Collapse(records []domain.ArticleRecord) []domain.ArticleRecord {
	out := make([]domain.ArticleRecord, 0, len(records))
	byURL := map[string]int{}
	byTitle := map[string]int{}

	for _, rec := range records {
		urlKey := canonicalURL(rec.URL)
		titleKey := normalizedTitle(rec.Title)

		idx := -1
		if urlKey != "" {
			if i, ok := byURL[urlKey]; ok {
				idx = i
			}
		}
		if idx < 0 && titleKey != "" {
			if i, ok := byTitle[titleKey]; ok {
				idx = i
			}
		}

		if idx < 0 {
			out = append(out, rec)
			idx = len(out) - 1
		} else if out[idx].BodyText == "" && rec.BodyText != "" {
			out[idx] = rec
		}

		if urlKey != "" {
			if _, ok := byURL[urlKey]; !ok {
				byURL[urlKey] = idx
			}
		}
		if titleKey != "" {
			if _, ok := byTitle[titleKey]; !ok {
				byTitle[titleKey] = idx
			}
		}
	}

	return out
}

func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimSuffix(u.EscapedPath(), "/")

	return strings.ToLower(u.Scheme) + "://" + host + path
}

func normalizedTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
