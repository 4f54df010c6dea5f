package insights

import (
	"math"
	"sort"
	"time"

	"github.com/flyagencia/salesops/internal/domain"
)

// LossBreakdown groups loss records by exact reason over a trailing
// window and returns them ordered by count (ties broken by reason).
// Percentages use round-half-up so the frontend never shows 0% for a
// reason that has records. With no records in the window the result is
// an empty, non-nil slice.
func LossBreakdown(records []domain.LossRecord, windowDays int, now time.Time) []domain.LossReasonStat {
	cutoff := now.AddDate(0, 0, -windowDays)

	type bucket struct {
		count int
		value float64
	}
	buckets := make(map[string]*bucket)
	total := 0

	for _, rec := range records {
		if rec.LostAt.Before(cutoff) {
			continue
		}
		b := buckets[rec.Reason]
		if b == nil {
			b = &bucket{}
			buckets[rec.Reason] = b
		}
		b.count++
		b.value += rec.Value
		total++
	}

	stats := make([]domain.LossReasonStat, 0, len(buckets))
	for reason, b := range buckets {
		pct := int(math.Floor(float64(b.count)*100.0/float64(total) + 0.5))
		stats = append(stats, domain.LossReasonStat{
			Reason:     reason,
			Count:      b.count,
			TotalValue: b.value,
			Percent:    pct,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Reason < stats[j].Reason
	})
	return stats
}
