// Package deduplication merges freshly extracted articles into the known set by link.
package deduplication

import (
	"sort"

	"newsfeed/types"
)

// Merge appends fetched articles whose link is not yet known and orders the result newest first.
// When nothing is new it returns existing untouched and false. Known articles are never overwritten.
func Merge(existing, fetched []types.Article) ([]types.Article, bool) {
	newOnes := NewArticles(existing, fetched)
	if len(newOnes) == 0 {
		return existing, false
	}

	merged := make([]types.Article, 0, len(existing)+len(newOnes))
	merged = append(merged, existing...)
	merged = append(merged, newOnes...)
	SortByDateDesc(merged)
	return merged, true
}

// NewArticles returns the fetched articles whose link is absent from existing,
// keeping only the first occurrence of a link repeated within fetched.
func NewArticles(existing, fetched []types.Article) []types.Article {
	seen := make(map[string]struct{}, len(existing)+len(fetched))
	for _, a := range existing {
		seen[a.Link] = struct{}{}
	}

	var out []types.Article
	for _, a := range fetched {
		if _, ok := seen[a.Link]; ok {
			continue
		}
		seen[a.Link] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Dedupe drops later articles that repeat an earlier link. The input slice is not modified.
func Dedupe(articles []types.Article) []types.Article {
	return NewArticles(nil, articles)
}

// SortByDateDesc orders articles newest first; equal dates keep their relative order.
func SortByDateDesc(articles []types.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date.After(articles[j].Date)
	})
}
