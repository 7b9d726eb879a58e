package domain

import "strings"

// Category selects the feed ordering rule.
type Category string

const (
	CategoryPopular  Category = "popular"
	CategoryRecent   Category = "recent"
	CategoryNearby   Category = "nearby"
	CategoryTrending Category = "trending"
)

// ParseCategory normalizes a raw category string. Unrecognized values are
// carried through unchanged so the feed engine can observe (and report) the
// degraded path instead of guessing.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryPopular
	}
	return c
}

// Known reports whether the category maps to a defined ordering rule.
func (c Category) Known() bool {
	switch c {
	case CategoryPopular, CategoryRecent, CategoryNearby, CategoryTrending:
		return true
	}
	return false
}

// FeedQuery is one invocation of the feed engine.
type FeedQuery struct {
	Search   string
	Category Category
	Page     int
	PageSize int
	Viewer   *Location
}

// FeedPage is the ordered, paginated slice of the wall.
//
// HasMore is the load-more heuristic: true exactly when the result length
// equals Page*PageSize. It is an at-least-once trigger, not an exact
// has-more flag; re-querying an exhausted collection returns the same result.
//
// Fallback marks a degraded invocation (unrecognized category or a failed
// ordering rule). The contract stays "never fail, always return a best-effort
// ordered list", but callers can observe the degradation.
type FeedPage struct {
	Whispers []Whisper `json:"whispers"`
	HasMore  bool      `json:"has_more"`
	Fallback bool      `json:"fallback,omitempty"`
}

// MoodStat is one row of the wall-wide mood aggregation.
type MoodStat struct {
	Mood       Mood    `json:"mood"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// UserStats aggregates one anonymous session's whispers for profile views.
type UserStats struct {
	Whispers   []Whisper      `json:"whispers"`
	TotalLikes int            `json:"total_likes"`
	MoodCounts map[string]int `json:"mood_counts"`
}
