package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/league/internal/models"
)

func TestValuePosition(t *testing.T) {
	tests := []struct {
		name    string
		holding models.Holding
		want    models.PositionMetrics
	}{
		{
			name:    "gain",
			holding: models.Holding{Quantity: 10, AvgBuyPrice: 100, CurrentPrice: 150},
			want:    models.PositionMetrics{CurrentValue: 1500, CostBasis: 1000, UnrealizedPL: 500, UnrealizedPLPercent: 50},
		},
		{
			name:    "loss",
			holding: models.Holding{Quantity: 4, AvgBuyPrice: 50, CurrentPrice: 25},
			want:    models.PositionMetrics{CurrentValue: 100, CostBasis: 200, UnrealizedPL: -100, UnrealizedPLPercent: -50},
		},
		{
			name:    "zero cost basis",
			holding: models.Holding{Quantity: 5, AvgBuyPrice: 0, CurrentPrice: 20},
			want:    models.PositionMetrics{CurrentValue: 100, CostBasis: 0, UnrealizedPL: 100, UnrealizedPLPercent: 0},
		},
		{
			name:    "zero quantity",
			holding: models.Holding{Quantity: 0, AvgBuyPrice: 10, CurrentPrice: 12},
			want:    models.PositionMetrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuePosition(tt.holding)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValuePosition_ZeroCostBasisNeverNaN(t *testing.T) {
	for _, price := range []float64{0, 0.01, 20, 1e9} {
		got := ValuePosition(models.Holding{Quantity: 3, AvgBuyPrice: 0, CurrentPrice: price})
		assert.Equal(t, 0.0, got.UnrealizedPLPercent)
		assert.False(t, math.IsNaN(got.UnrealizedPLPercent))
		assert.False(t, math.IsInf(got.UnrealizedPLPercent, 0))
	}
}
