package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"mission-control/internal/config"
	"mission-control/internal/errors"
	"mission-control/internal/repository"
	"mission-control/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const entityRecord = "record"

// Repository is a repository.Table kept in a local SQLite file
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Table = (*Repository)(nil)

// New opens the database at dbPath and applies pending migrations
func New(ctx context.Context, dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// one writer keeps the read-merge-write in Update consistent
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

// NewWithConfig creates the database directory from cfg and opens the file there
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Repository, error) {
	if err := os.MkdirAll(cfg.Database.Dir, 0o755); err != nil {
		return nil, errors.NewStorageError("create database directory", err)
	}
	return New(ctx, filepath.Join(cfg.Database.Dir, cfg.Database.Filename))
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// List returns every record in insertion order
func (r *Repository) List(ctx context.Context) ([]repository.Record, error) {
	query := `SELECT id, fields, created_at FROM records ORDER BY rowid ASC`

	rows, err := QueryMultiple(ctx, r.db, query, ScanRecordRows, "records")
	if err != nil {
		return nil, err
	}

	records := make([]repository.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, HandleDatabaseError("decode records", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Create inserts a record with a fresh id
func (r *Repository) Create(ctx context.Context, fields repository.Fields) (repository.Record, error) {
	encoded, err := encodeFields(fields)
	if err != nil {
		return repository.Record{}, errors.NewInvalidInputError("fields", nil, err.Error())
	}

	rec := repository.Record{
		ID:          NewRecordID(),
		Fields:      fields.Clone(),
		CreatedTime: r.now().UTC().Truncate(time.Second),
	}

	query := `INSERT INTO records (id, fields, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, encoded, FormatTimeForDB(rec.CreatedTime)); err != nil {
		return repository.Record{}, HandleDatabaseError("create record", err)
	}
	return rec, nil
}

// Update merges fields into the stored record
func (r *Repository) Update(ctx context.Context, id string, fields repository.Fields) (repository.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Record{}, HandleDatabaseError("begin update", err)
	}
	defer tx.Rollback()

	query := `SELECT id, fields, created_at FROM records WHERE id = ?`
	row, err := QuerySingle(ctx, tx, query, ScanRecordRow, entityRecord, id, id)
	if err != nil {
		return repository.Record{}, err
	}
	rec, err := row.toRecord()
	if err != nil {
		return repository.Record{}, HandleDatabaseError("decode record", err)
	}

	for k, v := range fields {
		rec.Fields[k] = v
	}
	encoded, err := encodeFields(rec.Fields)
	if err != nil {
		return repository.Record{}, errors.NewInvalidInputError("fields", nil, err.Error())
	}

	if err := ExecuteWithRowsAffected(ctx, tx, `UPDATE records SET fields = ? WHERE id = ?`, entityRecord, id, encoded, id); err != nil {
		return repository.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return repository.Record{}, HandleDatabaseError("commit update", err)
	}
	return rec, nil
}

// Delete removes a record by id
func (r *Repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM records WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, entityRecord, id, id)
}
