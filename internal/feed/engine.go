package feed

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/Simran251393/whisperwalls/internal/domain"
)

const (
	// DefaultPageSize is used when a query asks for no (or a nonsensical) page size.
	DefaultPageSize = 20

	// MaxPageSize caps caller-supplied page sizes.
	MaxPageSize = 100

	// NearbyRadiusMeters bounds the "nearby" category.
	NearbyRadiusMeters = 1000.0

	// TrendingWindow is the maximum age for the "trending" category.
	TrendingWindow = 24 * time.Hour
)

// Query filters, orders and paginates a whisper snapshot.
//
// The result is always a subsequence of the search-filtered input: no items
// invented, none duplicated, stable order within equal sort keys. Queries
// never fail; an unrecognized category keeps the input order and marks the
// page as Fallback.
func Query(now time.Time, whispers []domain.Whisper, q domain.FeedQuery) domain.FeedPage {
	q = normalize(q)

	filtered := searchFilter(whispers, q.Search)
	ordered, fallback := order(now, filtered, q.Category)

	// The prefix length and the load-more heuristic are derived without
	// ever multiplying Page by PageSize: the product overflows for huge
	// caller-supplied values. Page <= len/PageSize holds exactly when
	// Page*PageSize items exist.
	limit := len(ordered)
	hasMore := false
	if q.Page <= len(ordered)/q.PageSize {
		limit = q.Page * q.PageSize
		hasMore = true
	}

	return domain.FeedPage{
		Whispers: ordered[:limit],
		HasMore:  hasMore,
		Fallback: fallback,
	}
}

func normalize(q domain.FeedQuery) domain.FeedQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// searchFilter retains whispers whose text or mood contains the case-folded
// search string. It always returns a fresh slice so later sorting cannot
// touch the caller's snapshot.
func searchFilter(whispers []domain.Whisper, search string) []domain.Whisper {
	query := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Whisper, 0, len(whispers))
	for _, w := range whispers {
		if query == "" ||
			strings.Contains(strings.ToLower(w.Text), query) ||
			strings.Contains(strings.ToLower(w.Mood), query) {
			out = append(out, w)
		}
	}
	return out
}

// order applies exactly one category rule and reports whether the invocation
// degraded. All sorts are stable so ties preserve input order. None of the
// comparators can fail, so the only degraded path is an unrecognized
// category, which passes the input through unchanged.
func order(now time.Time, whispers []domain.Whisper, category domain.Category) ([]domain.Whisper, bool) {
	switch category {
	case domain.CategoryPopular:
		slices.SortStableFunc(whispers, func(a, b domain.Whisper) int {
			return cmp.Compare(b.Likes, a.Likes)
		})
		return whispers, false

	case domain.CategoryRecent:
		slices.SortStableFunc(whispers, func(a, b domain.Whisper) int {
			return effectiveTime(b, now).Compare(effectiveTime(a, now))
		})
		return whispers, false

	case domain.CategoryNearby:
		whispers = slices.DeleteFunc(whispers, func(w domain.Whisper) bool {
			return w.Distance > NearbyRadiusMeters
		})
		slices.SortStableFunc(whispers, func(a, b domain.Whisper) int {
			return cmp.Compare(a.Distance, b.Distance)
		})
		return whispers, false

	case domain.CategoryTrending:
		whispers = slices.DeleteFunc(whispers, func(w domain.Whisper) bool {
			return now.Sub(effectiveTime(w, now)) > TrendingWindow
		})
		slices.SortStableFunc(whispers, func(a, b domain.Whisper) int {
			return cmp.Compare(TrendingScore(now, b), TrendingScore(now, a))
		})
		return whispers, false

	default:
		return whispers, true
	}
}

// TrendingScore is likes divided by elapsed age in hours, with a one hour
// floor so brand-new whispers don't divide by ~zero.
func TrendingScore(now time.Time, w domain.Whisper) float64 {
	ageHours := now.Sub(effectiveTime(w, now)).Hours()
	if ageHours < 1 {
		ageHours = 1
	}
	return float64(w.Likes) / ageHours
}

// effectiveTime substitutes "now" for a missing timestamp.
func effectiveTime(w domain.Whisper, now time.Time) time.Time {
	if w.Timestamp.IsZero() {
		return now
	}
	return w.Timestamp
}
