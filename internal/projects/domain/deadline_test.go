package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntilDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	t.Run("no end date", func(t *testing.T) {
		_, ok := DaysUntilDeadline(nil, now)
		assert.False(t, ok)
	})

	t.Run("today ignores time of day", func(t *testing.T) {
		end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		days, ok := DaysUntilDeadline(&end, now)
		assert.True(t, ok)
		assert.Equal(t, 0, days)
	})

	t.Run("future", func(t *testing.T) {
		end := time.Date(2026, 3, 17, 8, 0, 0, 0, time.UTC)
		days, _ := DaysUntilDeadline(&end, now)
		assert.Equal(t, 7, days)
	})

	t.Run("past", func(t *testing.T) {
		end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
		days, _ := DaysUntilDeadline(&end, now)
		assert.Equal(t, -2, days)
	})

	t.Run("across month boundary", func(t *testing.T) {
		end := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
		days, _ := DaysUntilDeadline(&end, now)
		assert.Equal(t, 23, days)
	})

	t.Run("local time keeps its calendar day", func(t *testing.T) {
		berlin := time.FixedZone("CET", 60*60)
		localNow := time.Date(2026, 3, 10, 0, 30, 0, 0, berlin)
		end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		days, _ := DaysUntilDeadline(&end, localNow)
		assert.Equal(t, 1, days)
	})
}
