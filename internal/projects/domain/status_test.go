package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusInquiry, "anfrage"},
		{StatusSiteVisit, "besichtigung"},
		{StatusPlanned, "geplant"},
		{StatusInProgress, "in_bearbeitung"},
		{StatusCompleted, "abgeschlossen"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPlanned.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.False(t, Status("completed").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_IsCompleted(t *testing.T) {
	assert.True(t, StatusCompleted.IsCompleted())
	assert.False(t, StatusInProgress.IsCompleted())
	assert.False(t, StatusInquiry.IsCompleted())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("in_bearbeitung")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)

	_, err = ParseStatus("unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
