package repositories

import (
	"context"
	"errors"
	"fmt"
)

// Initialize the schema for the store's dialect. Safe to run repeatedly.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	statements := sqliteSchema
	if s.Dialect.Name == Postgres.Name {
		statements = postgresSchema
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
