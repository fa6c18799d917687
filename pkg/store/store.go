// Package store persists API scan requests, the work queue and the reports
// produced for them in Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
)

const (
	StatusQueued    = "queued"
	StatusScanning  = "scanning"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	DefaultPriority = 5
)

var (
	ErrNotFound = errors.New("scan not found")
	// ErrNoWork is returned by ClaimNext when the queue is empty.
	ErrNoWork = errors.New("no queued scans")
)

// Scan is one API request to inspect a domain.
type Scan struct {
	ID           string    `json:"id"`
	Domain       string    `json:"domain"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	TargetCount  int       `json:"target_count"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"updated"`
}

// Done reports whether the scan reached a final status.
func (s *Scan) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open connects to Postgres and applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxConnections)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, log: log.WithComponent("store")}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateScan records a scan and queues it.
func (s *Store) CreateScan(ctx context.Context, domain string, priority int) (*Scan, error) {
	if priority == 0 {
		priority = DefaultPriority
	}
	scan := &Scan{ID: uuid.New().String(), Domain: domain, Status: StatusQueued}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO scans (id, domain, status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, scan.ID, domain, StatusQueued).Scan(&scan.CreatedAt, &scan.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scan_queue (scan_id, domain, priority)
		VALUES ($1, $2, $3)
	`, scan.ID, domain, priority); err != nil {
		return nil, fmt.Errorf("failed to queue scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scan: %w", err)
	}
	return scan, nil
}

// ClaimNext takes the highest-priority pending scan off the queue and marks
// it as scanning. Concurrent workers never claim the same row.
func (s *Store) ClaimNext(ctx context.Context) (*Scan, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		UPDATE scan_queue
		SET status = 'processing', started_at = NOW()
		WHERE id = (
			SELECT id FROM scan_queue
			WHERE status = 'pending'
			ORDER BY priority DESC, created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING scan_id
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoWork
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim scan: %w", err)
	}

	if err := s.setStatus(ctx, id, StatusScanning, ""); err != nil {
		return nil, err
	}
	return s.GetScan(ctx, id)
}

// CompleteScan stores the reports of a scan, marks it completed and removes
// it from the queue.
func (s *Store) CompleteScan(ctx context.Context, id string, reports []*report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, rep := range reports {
		data, err := json.Marshal(rep)
		if err != nil {
			return fmt.Errorf("failed to encode report for %s: %w", rep.Key(), err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scan_reports (scan_id, position, hostname, port, starttls, ip, report)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, i, rep.Hostname, rep.Port, rep.StartTLS, rep.IP, string(data)); err != nil {
			return fmt.Errorf("failed to save report for %s: %w", rep.Key(), err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE scans
		SET status = $2, target_count = $3, error_message = NULL, updated_at = NOW()
		WHERE id = $1
	`, id, StatusCompleted, len(reports)); err != nil {
		return fmt.Errorf("failed to complete scan: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_queue WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("failed to dequeue scan: %w", err)
	}

	return tx.Commit()
}

// FailScan marks a scan failed and removes it from the queue.
func (s *Store) FailScan(ctx context.Context, id string, reason string) error {
	if err := s.setStatus(ctx, id, StatusFailed, reason); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_queue WHERE scan_id = $1`, id); err != nil {
		return fmt.Errorf("failed to dequeue scan: %w", err)
	}
	return nil
}

func (s *Store) setStatus(ctx context.Context, id, status, reason string) error {
	var msg sql.NullString
	if reason != "" {
		msg = sql.NullString{String: reason, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE scans SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, msg)
	if err != nil {
		return fmt.Errorf("failed to update scan %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetScan(ctx context.Context, id string) (*Scan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	scan := &Scan{}
	var msg sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, domain, status, error_message, target_count, created_at, updated_at
		FROM scans
		WHERE id = $1
	`, id).Scan(&scan.ID, &scan.Domain, &scan.Status, &msg, &scan.TargetCount, &scan.CreatedAt, &scan.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %s: %w", id, err)
	}
	scan.ErrorMessage = msg.String
	return scan, nil
}

// ListScans returns scans newest first.
func (s *Store) ListScans(ctx context.Context, limit, offset int) ([]*Scan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, status, error_message, target_count, created_at, updated_at
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := []*Scan{}
	for rows.Next() {
		scan := &Scan{}
		var msg sql.NullString
		if err := rows.Scan(&scan.ID, &scan.Domain, &scan.Status, &msg, &scan.TargetCount, &scan.CreatedAt, &scan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to read scan row: %w", err)
		}
		scan.ErrorMessage = msg.String
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// Reports returns the reports of a scan in the order they were saved.
func (s *Store) Reports(ctx context.Context, id string) ([]*report.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report FROM scan_reports
		WHERE scan_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports for %s: %w", id, err)
	}
	defer rows.Close()

	reports := []*report.Report{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}
		rep := &report.Report{}
		if err := json.Unmarshal(data, rep); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// QueueLength counts pending queue entries.
func (s *Store) QueueLength(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_queue WHERE status = 'pending'`).Scan(&n)
	return n, err
}
