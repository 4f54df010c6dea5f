package insights

import (
	"math"
	"sort"

	"github.com/flyagencia/salesops/internal/domain"
)

func roundPct(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100.0/float64(whole) + 0.5))
}

// OriginStats aggregates leads and wins per acquisition channel.
// Leads without an origin are grouped under "outro".
func OriginStats(state domain.BoardState) []domain.OriginStat {
	type bucket struct {
		leads int
		won   int
	}
	buckets := make(map[string]*bucket)

	for _, lead := range state.Leads {
		origin := lead.Origin
		if origin == "" {
			origin = "outro"
		}
		b := buckets[origin]
		if b == nil {
			b = &bucket{}
			buckets[origin] = b
		}
		b.leads++
		if stage := state.StageByID(lead.StageID); stage != nil && IsClosedWon(*stage) {
			b.won++
		}
	}

	stats := make([]domain.OriginStat, 0, len(buckets))
	for origin, b := range buckets {
		stats = append(stats, domain.OriginStat{
			Origin:        origin,
			Leads:         b.leads,
			Won:           b.won,
			ConversionPct: roundPct(b.won, b.leads),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Leads != stats[j].Leads {
			return stats[i].Leads > stats[j].Leads
		}
		return stats[i].Origin < stats[j].Origin
	})
	return stats
}

// StageConversion walks the stages in board order and computes, for
// each, how many leads sit there and what share reaches the next stage.
func StageConversion(state domain.BoardState) []domain.StageConversionStat {
	stages := make([]domain.PipelineStage, len(state.Stages))
	copy(stages, state.Stages)
	sort.Slice(stages, func(i, j int) bool { return stages[i].Position < stages[j].Position })

	counts := make([]int, len(stages))
	for _, lead := range state.Leads {
		for i := range stages {
			if stages[i].ID == lead.StageID {
				counts[i]++
				break
			}
		}
	}

	stats := make([]domain.StageConversionStat, 0, len(stages))
	for i := range stages {
		stat := domain.StageConversionStat{
			StageID:    stages[i].ID,
			Title:      stages[i].Title,
			Count:      counts[i],
			FinalStage: i == len(stages)-1,
		}
		if !stat.FinalStage {
			stat.ToNextPct = roundPct(counts[i+1], counts[i])
		}
		stats = append(stats, stat)
	}
	return stats
}

// AverageCycleDays is the mean time from first contact to close over
// won leads that carry both dates. Zero when no lead qualifies.
func AverageCycleDays(state domain.BoardState) float64 {
	totalDays := 0.0
	n := 0
	for _, lead := range state.Leads {
		if lead.ClosedAt == nil || lead.FirstContactAt.IsZero() {
			continue
		}
		stage := state.StageByID(lead.StageID)
		if stage == nil || !IsClosedWon(*stage) {
			continue
		}
		totalDays += lead.ClosedAt.Sub(lead.FirstContactAt).Hours() / 24.0
		n++
	}
	if n == 0 {
		return 0
	}
	return totalDays / float64(n)
}

// AverageWonTicket is the mean ticket of leads in closed/won stages.
func AverageWonTicket(state domain.BoardState) float64 {
	total := 0.0
	n := 0
	for _, lead := range state.Leads {
		if stage := state.StageByID(lead.StageID); stage != nil && IsClosedWon(*stage) {
			total += lead.Ticket
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// OwnerPerformance aggregates leads, wins and won value per salesperson.
func OwnerPerformance(state domain.BoardState) []domain.OwnerStat {
	type bucket struct {
		leads    int
		won      int
		wonValue float64
	}
	buckets := make(map[string]*bucket)

	for _, lead := range state.Leads {
		b := buckets[lead.Owner]
		if b == nil {
			b = &bucket{}
			buckets[lead.Owner] = b
		}
		b.leads++
		if stage := state.StageByID(lead.StageID); stage != nil && IsClosedWon(*stage) {
			b.won++
			b.wonValue += lead.Ticket
		}
	}

	stats := make([]domain.OwnerStat, 0, len(buckets))
	for owner, b := range buckets {
		stats = append(stats, domain.OwnerStat{
			Owner:         owner,
			Leads:         b.leads,
			Won:           b.won,
			WonValue:      b.wonValue,
			ConversionPct: roundPct(b.won, b.leads),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].WonValue != stats[j].WonValue {
			return stats[i].WonValue > stats[j].WonValue
		}
		return stats[i].Owner < stats[j].Owner
	})
	return stats
}
