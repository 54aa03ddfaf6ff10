// internal/store/records.go

// Package store holds the durable state of the review workflow: the ordered
// per-applicant application history in PostgreSQL and the conversation
// sessions in Redis.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

var (
	// ErrAlreadyDecided is returned by Finalize when the applicant's last
	// record is already terminal. The returned record names the committed
	// decision so the caller can report it.
	ErrAlreadyDecided = errors.New("APPLICATION_ALREADY_DECIDED")

	// ErrNoPendingRecord is returned by Finalize when the applicant has no
	// pending record matching the decision's nickname.
	ErrNoPendingRecord = errors.New("NO_PENDING_RECORD")
)

// PostgresRecords stores application records in the applications table.
//
// Schema (see configs/schema.sql):
//
//	applications(seq bigserial, id uuid, applicant_id bigint, nickname text,
//	             submitted_at timestamptz, status text,
//	             decided_by bigint null, decided_at timestamptz null)
type PostgresRecords struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresRecords creates a record store backed by db.
func NewPostgresRecords(db *sql.DB, log logger.Logger) *PostgresRecords {
	return &PostgresRecords{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "recordStore"}),
	}
}

// Append persists a new record at the end of the applicant's history.
func (s *PostgresRecords) Append(ctx context.Context, rec *models.ApplicationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, applicant_id, nickname, submitted_at, status, decided_by, decided_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID,
		rec.ApplicantID,
		rec.Nickname,
		rec.SubmittedAt,
		string(rec.Status),
		rec.DecidedBy,
		rec.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application record: %w", err)
	}
	return nil
}

// History returns the applicant's records, oldest first.
func (s *PostgresRecords) History(ctx context.Context, applicantID int64) ([]models.ApplicationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, applicant_id, nickname, submitted_at, status, decided_by, decided_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY seq ASC`, applicantID)
	if err != nil {
		return nil, fmt.Errorf("query application history: %w", err)
	}
	defer rows.Close()

	var history []models.ApplicationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application history: %w", err)
	}
	return history, nil
}

// Last returns the applicant's newest record, or (nil, nil) when the
// applicant has never applied.
func (s *PostgresRecords) Last(ctx context.Context, applicantID int64) (*models.ApplicationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, applicant_id, nickname, submitted_at, status, decided_by, decided_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY seq DESC
		LIMIT 1`, applicantID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Finalize moves the applicant's last record from pending to the given
// terminal status. The row lock held across the read and the status-guarded
// update make this the serialization point for racing decisions: the first
// caller commits, later callers get ErrAlreadyDecided with the committed
// record.
func (s *PostgresRecords) Finalize(ctx context.Context, applicantID int64, nickname string, status models.Status, reviewerID int64, decidedAt time.Time) (*models.ApplicationRecord, error) {
	if !status.IsTerminal() {
		return nil, fmt.Errorf("finalize requires a terminal status, got %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin finalize tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, applicant_id, nickname, submitted_at, status, decided_by, decided_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY seq DESC
		LIMIT 1
		FOR UPDATE`, applicantID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPendingRecord
	}
	if err != nil {
		return nil, err
	}

	if rec.Status.IsTerminal() {
		return rec, ErrAlreadyDecided
	}
	if rec.Nickname != nickname {
		// The decision targets an application that is no longer the last one.
		return nil, ErrNoPendingRecord
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE applications
		SET status = $1, decided_by = $2, decided_at = $3
		WHERE id = $4 AND status = $5`,
		string(status), reviewerID, decidedAt, rec.ID, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("finalize application record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("finalize rows affected: %w", err)
	}
	if affected == 0 {
		return rec, ErrAlreadyDecided
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit finalize tx: %w", err)
	}

	rec.Status = status
	rec.DecidedBy = &reviewerID
	rec.DecidedAt = &decidedAt
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ApplicationRecord, error) {
	var (
		rec       models.ApplicationRecord
		status    string
		decidedBy sql.NullInt64
		decidedAt sql.NullTime
	)
	err := row.Scan(&rec.ID, &rec.ApplicantID, &rec.Nickname, &rec.SubmittedAt, &status, &decidedBy, &decidedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan application record: %w", err)
	}
	rec.Status = models.Status(status)
	if decidedBy.Valid {
		rec.DecidedBy = &decidedBy.Int64
	}
	if decidedAt.Valid {
		rec.DecidedAt = &decidedAt.Time
	}
	return &rec, nil
}
