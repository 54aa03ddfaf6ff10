package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func createRecords(t *testing.T, db *sql.DB) *PostgresRecords {
	return NewPostgresRecords(db, logger.NewTestLogger(t))
}

func recordColumns() []string {
	return []string{"id", "applicant_id", "nickname", "submitted_at", "status", "decided_by", "decided_at"}
}

func pendingRow(id string, applicantID int64, nickname string, submittedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(recordColumns()).
		AddRow(id, applicantID, nickname, submittedAt, "pending", nil, nil)
}

// ==========================
// Append / History / Last
// ==========================

func TestAppend_InsertsPendingRecord(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	rec := &models.ApplicationRecord{
		ID:          "rec-1",
		ApplicantID: 100,
		Nickname:    "Steve123",
		SubmittedAt: time.Now().UTC(),
		Status:      models.StatusPending,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs(rec.ID, rec.ApplicantID, rec.Nickname, rec.SubmittedAt, "pending", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := records.Append(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_ReturnsRecordsOldestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	first := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	decided := first.Add(2 * time.Hour)
	second := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(recordColumns()).
		AddRow("rec-1", int64(100), "Steve123", first, "rejected", int64(1), decided).
		AddRow("rec-2", int64(100), "Steve123", second, "pending", nil, nil)

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(int64(100)).
		WillReturnRows(rows)

	history, err := records.History(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusRejected, history[0].Status)
	require.NotNil(t, history[0].DecidedBy)
	assert.Equal(t, int64(1), *history[0].DecidedBy)
	assert.Equal(t, models.StatusPending, history[1].Status)
	assert.Nil(t, history[1].DecidedBy)
}

func TestLast_NoHistoryReturnsNil(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	mock.ExpectQuery("SELECT (.+) FROM applications").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(recordColumns()))

	last, err := records.Last(context.Background(), 100)

	require.NoError(t, err)
	assert.Nil(t, last)
}

// ==========================
// Finalize
// ==========================

func TestFinalize_CommitsFirstDecision(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	submittedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	decidedAt := submittedAt.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs(int64(100)).
		WillReturnRows(pendingRow("rec-1", 100, "Steve123", submittedAt))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).
		WithArgs("approved", int64(1), decidedAt, "rec-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := records.Finalize(context.Background(), 100, "Steve123", models.StatusApproved, 1, decidedAt)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, rec.Status)
	require.NotNil(t, rec.DecidedBy)
	assert.Equal(t, int64(1), *rec.DecidedBy)
	require.NotNil(t, rec.DecidedAt)
	assert.True(t, !rec.DecidedAt.Before(rec.SubmittedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalize_AlreadyDecidedShortCircuits(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	submittedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	decidedAt := submittedAt.Add(time.Hour)

	rows := sqlmock.NewRows(recordColumns()).
		AddRow("rec-1", int64(100), "Steve123", submittedAt, "approved", int64(1), decidedAt)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs(int64(100)).
		WillReturnRows(rows)
	mock.ExpectRollback()

	rec, err := records.Finalize(context.Background(), 100, "Steve123", models.StatusRejected, 2, decidedAt.Add(time.Minute))

	require.ErrorIs(t, err, ErrAlreadyDecided)
	require.NotNil(t, rec)
	assert.Equal(t, models.StatusApproved, rec.Status)
	require.NotNil(t, rec.DecidedBy)
	assert.Equal(t, int64(1), *rec.DecidedBy)
}

func TestFinalize_NoRecordForApplicant(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(recordColumns()))
	mock.ExpectRollback()

	rec, err := records.Finalize(context.Background(), 100, "Steve123", models.StatusApproved, 1, time.Now())

	require.ErrorIs(t, err, ErrNoPendingRecord)
	assert.Nil(t, rec)
}

func TestFinalize_NicknameMismatchIsNotFinalized(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE").
		WithArgs(int64(100)).
		WillReturnRows(pendingRow("rec-2", 100, "NewNick", time.Now().UTC())).
		RowsWillBeClosed()
	mock.ExpectRollback()

	rec, err := records.Finalize(context.Background(), 100, "OldNick", models.StatusApproved, 1, time.Now())

	require.ErrorIs(t, err, ErrNoPendingRecord)
	assert.Nil(t, rec)
}

func TestFinalize_RejectsNonTerminalStatus(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()
	records := createRecords(t, db)

	_, err := records.Finalize(context.Background(), 100, "Steve123", models.StatusPending, 1, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal status")
}
