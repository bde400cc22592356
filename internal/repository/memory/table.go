// Package memory is an in-process repository.Table used by tests and the
// memory backend.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mission-control/internal/errors"
	"mission-control/internal/repository"
)

// Table keeps records in insertion order behind a mutex.
type Table struct {
	mu      sync.Mutex
	records []repository.Record
	nextID  int
	now     func() time.Time

	// FailOn makes the named operation ("list", "create", "update", "delete")
	// return a storage error. Tests use it to simulate an unreachable table.
	FailOn map[string]bool
}

var _ repository.Table = (*Table)(nil)

// New returns an empty table.
func New() *Table {
	return &Table{now: time.Now, FailOn: map[string]bool{}}
}

// Seed appends records as-is, assigning ids to those without one.
func (t *Table) Seed(fields ...repository.Fields) []repository.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]repository.Record, 0, len(fields))
	for _, f := range fields {
		out = append(out, t.insert(f))
	}
	return out
}

// List returns a copy of every record.
func (t *Table) List(ctx context.Context) ([]repository.Record, error) {
	if err := t.check(ctx, "list"); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]repository.Record, len(t.records))
	for i, rec := range t.records {
		out[i] = copyRecord(rec)
	}
	return out, nil
}

// Create appends a record.
func (t *Table) Create(ctx context.Context, fields repository.Fields) (repository.Record, error) {
	if err := t.check(ctx, "create"); err != nil {
		return repository.Record{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	return copyRecord(t.insert(fields)), nil
}

// Update merges fields into record id.
func (t *Table) Update(ctx context.Context, id string, fields repository.Fields) (repository.Record, error) {
	if err := t.check(ctx, "update"); err != nil {
		return repository.Record{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return repository.Record{}, errors.NewNotFoundError("record", id)
	}
	for k, v := range fields {
		t.records[i].Fields[k] = v
	}
	return copyRecord(t.records[i]), nil
}

// Delete removes record id.
func (t *Table) Delete(ctx context.Context, id string) error {
	if err := t.check(ctx, "delete"); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return errors.NewNotFoundError("record", id)
	}
	t.records = append(t.records[:i], t.records[i+1:]...)
	return nil
}

// Close is a no-op.
func (t *Table) Close() error { return nil }

// Len returns the number of stored records.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

func (t *Table) check(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return errors.FromContext(op, errors.NewStorageError(op, err))
	}
	t.mu.Lock()
	fail := t.FailOn[op]
	t.mu.Unlock()
	if fail {
		return errors.NewStorageError(op, fmt.Errorf("simulated %s failure", op))
	}
	return nil
}

func (t *Table) insert(fields repository.Fields) repository.Record {
	t.nextID++
	rec := repository.Record{
		ID:          fmt.Sprintf("rec%014d", t.nextID),
		Fields:      fields.Clone(),
		CreatedTime: t.now().UTC(),
	}
	t.records = append(t.records, rec)
	return rec
}

func (t *Table) indexOf(id string) int {
	for i, rec := range t.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func copyRecord(rec repository.Record) repository.Record {
	rec.Fields = rec.Fields.Clone()
	return rec
}
