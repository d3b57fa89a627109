package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_StopRecordsMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	timer := StartTimer("project.health").WithMetrics(m).WithTags(T("source", "cli"))
	time.Sleep(time.Millisecond)
	d := timer.Stop()

	assert.Greater(t, d, time.Duration(0))
	tags := []Tag{T("source", "cli"), T("operation", "project.health")}
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, tags...))
	assert.Len(t, m.GetTimings(MetricOperationDuration, tags...), 1)
}

func TestTimer_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	m := NewInMemoryMetrics()
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	StartTimer("sweep").WithLogger(logger).WithMetrics(m).StopWithError(errors.New("db down"))

	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T("operation", "sweep")))
	assert.Contains(t, buf.String(), "operation failed")
	assert.Contains(t, buf.String(), "db down")
}

func TestTimeOperationResult(t *testing.T) {
	m := NewInMemoryMetrics()

	v, err := TimeOperationResult(nil, m, "load", func() (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T("operation", "load")))
	assert.Equal(t, int64(0), m.GetCounter(MetricOperationErrors, T("operation", "load")))
}
