package v1

import (
	"errors"
	"math"
	"sort"

	"github.com/duynhne/mood-service/internal/core/domain"
)

// aggregateStats rounds mean confidence to two decimals and orders groups by
// count descending, then emotion label ascending.
func aggregateStats(aggs []domain.EmotionAggregate) []domain.EmotionStat {
	out := make([]domain.EmotionStat, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, domain.EmotionStat{
			Emotion:       a.Emotion,
			Count:         a.Count,
			AvgConfidence: roundTo(a.AvgConfidence, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func isOwnerMissing(err error) bool {
	return errors.Is(err, domain.ErrOwnerMissing)
}
