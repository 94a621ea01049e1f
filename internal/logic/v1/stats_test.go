package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duynhne/mood-service/internal/core/domain"
)

func TestAggregateStats_RoundsAndOrders(t *testing.T) {
	got := aggregateStats([]domain.EmotionAggregate{
		{Emotion: "sad", Count: 1, AvgConfidence: 0.5},
		{Emotion: "angry", Count: 3, AvgConfidence: 0.333333},
		{Emotion: "happy", Count: 3, AvgConfidence: 0.7000000000000001},
		{Emotion: "calm", Count: 1, AvgConfidence: 0.125},
	})

	assert.Equal(t, []domain.EmotionStat{
		{Emotion: "angry", Count: 3, AvgConfidence: 0.33},
		{Emotion: "happy", Count: 3, AvgConfidence: 0.7},
		{Emotion: "calm", Count: 1, AvgConfidence: 0.13},
		{Emotion: "sad", Count: 1, AvgConfidence: 0.5},
	}, got)
}

func TestAggregateStats_Empty(t *testing.T) {
	assert.Empty(t, aggregateStats(nil))
}
