package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestHealthRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		register func(*HealthRegistry)
		expected HealthStatus
	}{
		{
			name:     "no checks",
			register: func(*HealthRegistry) {},
			expected: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			register: func(r *HealthRegistry) {
				r.Register("database", PingChecker("database", true, ok))
				r.Register("redis", PingChecker("redis", false, ok))
			},
			expected: HealthStatusHealthy,
		},
		{
			name: "optional dependency down",
			register: func(r *HealthRegistry) {
				r.Register("database", PingChecker("database", true, ok))
				r.Register("rabbitmq", PingChecker("rabbitmq", false, fail))
			},
			expected: HealthStatusDegraded,
		},
		{
			name: "required dependency down",
			register: func(r *HealthRegistry) {
				r.Register("database", PingChecker("database", true, fail))
				r.Register("rabbitmq", PingChecker("rabbitmq", false, fail))
			},
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHealthRegistry()
			tt.register(r)

			health := r.Check(context.Background())

			assert.Equal(t, tt.expected, health.Status)
			assert.False(t, health.Timestamp.IsZero())
		})
	}
}

func TestPingChecker_Message(t *testing.T) {
	result := PingChecker("database", true, fail)(context.Background())

	require.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, "database connection failed: connection refused", result.Message)
}
