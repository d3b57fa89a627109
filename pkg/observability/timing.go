package observability

import (
	"log/slog"
	"slices"
	"time"
)

// Timer measures one operation. On stop it records MetricOperationDuration
// and MetricOperationTotal, plus MetricOperationErrors on failure, all tagged
// with the operation name.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithLogger makes Stop log the outcome: debug on success, error on failure.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

func (t *Timer) StopWithError(err error) time.Duration {
	elapsed := time.Since(t.start)

	if t.logger != nil {
		attrs := []any{"operation", t.operation, "duration_ms", elapsed.Milliseconds()}
		if err != nil {
			t.logger.Error("operation failed", append(attrs, "error", err)...)
		} else {
			t.logger.Debug("operation completed", attrs...)
		}
	}

	if t.metrics != nil {
		tags := append(slices.Clone(t.tags), T("operation", t.operation))
		t.metrics.Timing(MetricOperationDuration, elapsed, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}
	return elapsed
}

// TimeOperationResult runs fn under a Timer.
func TimeOperationResult[T any](logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).WithLogger(logger).WithMetrics(metrics)
	result, err := fn()
	timer.StopWithError(err)
	return result, err
}
