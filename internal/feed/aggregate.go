package feed

import (
	"cmp"
	"slices"

	"github.com/Simran251393/whisperwalls/internal/domain"
	"github.com/google/uuid"
)

// MoodStats computes per-mood counts and percentages over a whisper snapshot,
// for every known mood. Percentages are 0 for an empty collection (never
// NaN). The result is sorted by count descending; ties keep the fixed
// mood-list order.
func MoodStats(whispers []domain.Whisper) []domain.MoodStat {
	counts := make(map[string]int, len(domain.Moods))
	for _, w := range whispers {
		counts[w.Mood]++
	}

	total := len(whispers)
	stats := make([]domain.MoodStat, 0, len(domain.Moods))
	for _, m := range domain.Moods {
		stat := domain.MoodStat{Mood: m, Count: counts[m.ID]}
		if total > 0 {
			stat.Percentage = 100 * float64(stat.Count) / float64(total)
		}
		stats = append(stats, stat)
	}

	slices.SortStableFunc(stats, func(a, b domain.MoodStat) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return stats
}

// UserStats reduces a snapshot to one anonymous session's profile view:
// the session's whispers, their total likes and a per-mood count map.
// An empty subset yields zero totals and an empty (non-nil) map.
func UserStats(whispers []domain.Whisper, userID uuid.UUID) domain.UserStats {
	stats := domain.UserStats{
		Whispers:   []domain.Whisper{},
		MoodCounts: make(map[string]int),
	}

	for _, w := range whispers {
		if w.UserID != userID {
			continue
		}
		stats.Whispers = append(stats.Whispers, w)
		stats.TotalLikes += w.Likes
		stats.MoodCounts[w.Mood]++
	}
	return stats
}
