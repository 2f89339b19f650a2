package visit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"
)

func setupMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)
	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func visitRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "gym_id", "visit_date", "start_time", "status", "created_at", "updated_at",
	}).AddRow(7, 1, 2, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "10:00", status, time.Now(), time.Now())
}

func TestCancelWithFee_DebitsAndCommits(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE visits").
		WithArgs(7).
		WillReturnRows(visitRows("cancelled"))
	mock.ExpectQuery("SELECT balance_cents FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(int64(20000)))
	mock.ExpectExec("UPDATE users SET balance_cents").
		WithArgs(int64(15000), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_log").
		WithArgs(1, int64(-5000), ledger.TypeFee, "Cancellation fee for visit 7", int64(15000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs(1, "visit_cancelled", 7, int64(5000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	v, err := repo.CancelWithFee(context.Background(), 7, 5000, "Cancellation fee for visit 7")

	require.NoError(t, err)
	require.Equal(t, StatusCancelled, v.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithFee_ZeroFeeSkipsLedger(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE visits").
		WithArgs(7).
		WillReturnRows(visitRows("cancelled"))
	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs(1, "visit_cancelled", 7, int64(0)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.CancelWithFee(context.Background(), 7, 0, "Cancellation fee for visit 7")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithFee_InsufficientBalanceRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE visits").
		WithArgs(7).
		WillReturnRows(visitRows("cancelled"))
	mock.ExpectQuery("SELECT balance_cents FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(int64(1000)))
	mock.ExpectRollback()

	_, err := repo.CancelWithFee(context.Background(), 7, 5000, "Cancellation fee for visit 7")

	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithFee_NotBooked(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE visits").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.CancelWithFee(context.Background(), 7, 5000, "Cancellation fee for visit 7")

	require.ErrorIs(t, err, ErrVisitNotBooked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleWithFee_MovesVisit(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	newDate := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE visits").
		WithArgs("2024-06-10", "11:00", 7).
		WillReturnRows(visitRows("booked"))
	mock.ExpectQuery("SELECT balance_cents FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(int64(20000)))
	mock.ExpectExec("UPDATE users SET balance_cents").
		WithArgs(int64(15000), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_log").
		WithArgs(1, int64(-5000), ledger.TypeFee, "Reschedule fee for visit 7", int64(15000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs(1, "visit_rescheduled", 7, int64(5000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.RescheduleWithFee(context.Background(), 7, newDate, "11:00", 5000, "Reschedule fee for visit 7")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
