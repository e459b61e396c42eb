// Package pgstore implements the DocumentStore contract on Postgres, for
// teams that keep rendered documents queryable instead of (or alongside) a
// file vault.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"advault/store"
)

// Store writes one row per document, keyed by class and name, stamping each
// write with the ingestion run that produced it.
type Store struct {
	dsn    string
	pool   *pgxpool.Pool
	runID  uuid.UUID
	logger zerolog.Logger
}

var _ store.DocumentStore = (*Store)(nil)

func New(dsn string, runID uuid.UUID, logger zerolog.Logger) *Store {
	return &Store{dsn: dsn, runID: runID, logger: logger}
}

func (s *Store) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("connecting to document store: %w", err)
	}
	s.pool = pool
	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the documents table when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			object_class text NOT NULL,
			name         text NOT NULL,
			body         text NOT NULL,
			run_id       uuid NOT NULL,
			updated_at   timestamptz NOT NULL DEFAULT NOW(),
			PRIMARY KEY (object_class, name)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, ref store.Ref) (string, bool, error) {
	var body string
	err := s.pool.QueryRow(ctx, `
		SELECT body FROM documents WHERE object_class = $1 AND name = $2
	`, ref.Class.String(), ref.Name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading document %s/%s: %w", ref.Class, ref.Name, err)
	}
	return body, true, nil
}

func (s *Store) Write(ctx context.Context, ref store.Ref, body string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer s.rollbackOrCommit(ctx, tx, &err)

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (object_class, name, body, run_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (object_class, name)
		DO UPDATE SET body = EXCLUDED.body, run_id = EXCLUDED.run_id, updated_at = NOW()
	`, ref.Class.String(), ref.Name, body, s.runID)
	if err != nil {
		return fmt.Errorf("upserting document %s/%s: %w", ref.Class, ref.Name, err)
	}
	return nil
}

func (s *Store) rollbackOrCommit(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return
	}
	if cmErr := tx.Commit(ctx); cmErr != nil {
		*err = fmt.Errorf("commit failed: %w", cmErr)
	}
}
