package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mission-control/internal/config"
	"mission-control/internal/metrics"
	"mission-control/internal/repository"
	"mission-control/internal/repository/airtable"
	"mission-control/internal/repository/memory"
	"mission-control/internal/repository/sqlite"
)

// TableFactory creates table instances based on the configured backend
type TableFactory struct {
	metrics *metrics.Metrics
}

// NewTableFactory creates a new table factory. Tables it opens record
// operation metrics when m is non-nil.
func NewTableFactory(m *metrics.Metrics) *TableFactory {
	return &TableFactory{metrics: m}
}

// Open creates the table for cfg.Table.Backend
func (tf *TableFactory) Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Table, error) {
	var (
		table repository.Table
		err   error
	)

	switch cfg.Table.Backend {
	case config.BackendAirtable:
		table, err = tf.createAirtableTable(cfg, logger)
	case config.BackendSQLite:
		table, err = tf.createSQLiteTable(ctx, cfg)
	case config.BackendMemory:
		logger.Warn("using the in-memory table, data is lost on exit")
		table = memory.New()
	default:
		return nil, fmt.Errorf("unknown table backend %q", cfg.Table.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("table opened", zap.String("backend", cfg.Table.Backend))
	if tf.metrics == nil {
		return table, nil
	}
	return metrics.NewInstrumentedTable(table, tf.metrics), nil
}

// createAirtableTable creates the Airtable REST client
func (tf *TableFactory) createAirtableTable(cfg *config.Config, logger *zap.Logger) (repository.Table, error) {
	client, err := airtable.New(airtable.OptionsFromConfig(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize airtable client: %w", err)
	}
	return client, nil
}

// createSQLiteTable creates the local SQLite table, creating its directory if needed
func (tf *TableFactory) createSQLiteTable(ctx context.Context, cfg *config.Config) (repository.Table, error) {
	repo, err := sqlite.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database at %s: %w", cfg.GetDatabasePath(), err)
	}
	return repo, nil
}
