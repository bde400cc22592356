// Package repository defines the flat record table every backend implements.
package repository

import (
	"context"
	"time"
)

// Fields holds a row's column values keyed by column name.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Record is one row of the table.
type Record struct {
	ID          string
	Fields      Fields
	CreatedTime time.Time
}

// Table is the remote record store shared by accounts and missions.
// Implementations return *errors.AppError values: not_found for unknown ids
// and storage for transport or backend failures.
type Table interface {
	// List returns every row in store order, following pagination internally.
	List(ctx context.Context) ([]Record, error)
	// Create inserts a row and returns it with its assigned id.
	Create(ctx context.Context, fields Fields) (Record, error)
	// Update patches only the given fields of row id.
	Update(ctx context.Context, id string, fields Fields) (Record, error)
	// Delete removes row id.
	Delete(ctx context.Context, id string) error
	Close() error
}
