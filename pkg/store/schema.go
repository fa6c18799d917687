package store

import (
	"context"
	"fmt"
)

type migration struct {
	Version     int
	Description string
	Up          string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Create scans and scan_queue",
		Up: `
			CREATE TABLE IF NOT EXISTS scans (
				id UUID PRIMARY KEY,
				domain TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'queued',
				error_message TEXT,
				target_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at DESC);

			CREATE TABLE IF NOT EXISTS scan_queue (
				id BIGSERIAL PRIMARY KEY,
				scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
				domain TEXT NOT NULL,
				priority INTEGER NOT NULL DEFAULT 5,
				status TEXT NOT NULL DEFAULT 'pending',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				started_at TIMESTAMPTZ
			);
			CREATE INDEX IF NOT EXISTS idx_scan_queue_pending ON scan_queue(status, priority DESC, created_at);
		`,
	},
	{
		Version:     2,
		Description: "Create scan_reports",
		Up: `
			CREATE TABLE IF NOT EXISTS scan_reports (
				id BIGSERIAL PRIMARY KEY,
				scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				hostname TEXT NOT NULL,
				port INTEGER NOT NULL,
				starttls BOOLEAN NOT NULL DEFAULT FALSE,
				ip TEXT,
				report JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_scan_reports_scan_id ON scan_reports(scan_id, position);
		`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`,
			m.Version, m.Description,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		s.log.Infow("Applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}
