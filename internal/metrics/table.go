package metrics

import (
	"context"
	"time"

	"mission-control/internal/errors"
	"mission-control/internal/repository"
)

// InstrumentedTable wraps a repository.Table with operation counters and latency.
type InstrumentedTable struct {
	next    repository.Table
	metrics *Metrics
}

var _ repository.Table = (*InstrumentedTable)(nil)

// NewInstrumentedTable decorates next.
func NewInstrumentedTable(next repository.Table, m *Metrics) *InstrumentedTable {
	return &InstrumentedTable{next: next, metrics: m}
}

func (t *InstrumentedTable) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if appErr, ok := errors.AsAppError(err); ok {
			status = appErr.Type.String()
		}
	}
	t.metrics.TableOperationsTotal.WithLabelValues(op, status).Inc()
	t.metrics.TableOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (t *InstrumentedTable) List(ctx context.Context) (records []repository.Record, err error) {
	defer func(start time.Time) { t.observe("list", start, err) }(time.Now())
	return t.next.List(ctx)
}

func (t *InstrumentedTable) Create(ctx context.Context, fields repository.Fields) (rec repository.Record, err error) {
	defer func(start time.Time) { t.observe("create", start, err) }(time.Now())
	return t.next.Create(ctx, fields)
}

func (t *InstrumentedTable) Update(ctx context.Context, id string, fields repository.Fields) (rec repository.Record, err error) {
	defer func(start time.Time) { t.observe("update", start, err) }(time.Now())
	return t.next.Update(ctx, id, fields)
}

func (t *InstrumentedTable) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { t.observe("delete", start, err) }(time.Now())
	return t.next.Delete(ctx, id)
}

func (t *InstrumentedTable) Close() error {
	return t.next.Close()
}
