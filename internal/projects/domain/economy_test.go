package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEconomy(t *testing.T) {
	t.Run("positive revenue", func(t *testing.T) {
		summary := SummarizeEconomy(Targets{TargetRevenue: Float(10000)}, NewAggregates(0, 3000, false))

		require.NotNil(t, summary.TargetRevenue)
		require.NotNil(t, summary.GrossProfit)
		require.NotNil(t, summary.GrossMarginPct)
		assert.Equal(t, 10000.0, *summary.TargetRevenue)
		assert.Equal(t, 3000.0, summary.ActualCosts)
		assert.Equal(t, 7000.0, *summary.GrossProfit)
		assert.Equal(t, 70, *summary.GrossMarginPct)
	})

	t.Run("negative margin", func(t *testing.T) {
		summary := SummarizeEconomy(Targets{TargetRevenue: Float(1000)}, NewAggregates(0, 1500, false))

		require.NotNil(t, summary.GrossMarginPct)
		assert.Equal(t, -500.0, *summary.GrossProfit)
		assert.Equal(t, -50, *summary.GrossMarginPct)
	})

	t.Run("margin rounds half up", func(t *testing.T) {
		summary := SummarizeEconomy(Targets{TargetRevenue: Float(200)}, NewAggregates(0, 99, false))

		require.NotNil(t, summary.GrossMarginPct)
		assert.Equal(t, 51, *summary.GrossMarginPct)
	})

	t.Run("revenue unset", func(t *testing.T) {
		summary := SummarizeEconomy(Targets{}, NewAggregates(0, 250, false))

		assert.Nil(t, summary.TargetRevenue)
		assert.Nil(t, summary.GrossProfit)
		assert.Nil(t, summary.GrossMarginPct)
		assert.Equal(t, 250.0, summary.ActualCosts)
	})

	t.Run("revenue zero", func(t *testing.T) {
		summary := SummarizeEconomy(Targets{TargetRevenue: Float(0)}, NewAggregates(0, 250, false))

		require.NotNil(t, summary.TargetRevenue)
		assert.Equal(t, 0.0, *summary.TargetRevenue)
		assert.Nil(t, summary.GrossProfit)
		assert.Nil(t, summary.GrossMarginPct)
	})
}
