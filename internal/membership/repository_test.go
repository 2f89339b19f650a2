package membership

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
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

func membershipRows(status, paymentStatus string, paymentID interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "gym_id", "plan_id", "start_date", "end_date",
		"status", "payment_status", "amount_cents", "base_cents", "discount_cents",
		"coupon_code", "payment_id", "activated_at", "created_at", "updated_at",
	}).AddRow(1, 4, 2, 5, now, now.AddDate(0, 1, 0),
		status, paymentStatus, int64(90000), int64(100000), int64(10000),
		nil, paymentID, nil, now, now)
}

func TestCreateCheckout(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO memberships").
		WithArgs(4, 2, 5, start, end, int64(70000), int64(70000), int64(0), nil).
		WillReturnRows(membershipRows("pending", "pending", nil))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(4, 2, 1, int64(70000), int64(70000), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "gym_id", "membership_id", "amount_cents", "base_cents",
			"discount_cents", "status", "transaction_id", "gateway_payment_id",
			"created_at", "updated_at",
		}).AddRow(9, 4, 2, 1, int64(70000), int64(70000), int64(0), "pending", nil, nil, now, now))
	mock.ExpectExec("UPDATE memberships SET payment_id").
		WithArgs(9, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m, pay, err := repo.CreateCheckout(context.Background(), CheckoutParams{
		UserID: 4, GymID: 2, PlanID: 5,
		StartDate: start, EndDate: end,
		AmountCents: 70000, BaseCents: 70000,
	})

	require.NoError(t, err)
	require.Equal(t, 1, m.ID)
	require.Equal(t, 9, pay.ID)
	require.NotNil(t, m.PaymentID)
	require.Equal(t, 9, *m.PaymentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCheckout_CouponRedeemedInSameTx(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)
	code := "SAVE10"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO memberships").
		WillReturnRows(membershipRows("pending", "pending", nil))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "gym_id", "membership_id", "amount_cents", "base_cents",
			"discount_cents", "status", "transaction_id", "gateway_payment_id",
			"created_at", "updated_at",
		}).AddRow(9, 4, 2, 1, int64(90000), int64(100000), int64(10000), "pending", nil, nil, now, now))
	mock.ExpectExec("UPDATE memberships SET payment_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// usage slot already taken: whole checkout rolls back
	mock.ExpectExec("UPDATE coupons").
		WithArgs("SAVE10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := repo.CreateCheckout(context.Background(), CheckoutParams{
		UserID: 4, GymID: 2, PlanID: 5,
		StartDate: start, EndDate: end,
		AmountCents: 90000, BaseCents: 100000, DiscountCents: 10000,
		CouponCode: &code, RedeemCoupon: true,
	})

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_ReplayIsNoOp(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM memberships WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(membershipRows("active", "paid", 9))
	mock.ExpectRollback()

	m, alreadyActive, err := repo.Activate(context.Background(), ActivateParams{
		MembershipID: 1, PaymentID: 9,
		GatewayOrderID: "order_abc", GatewayPaymentID: "pay_xyz",
	})

	require.NoError(t, err)
	require.True(t, alreadyActive)
	require.Equal(t, StatusActive, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_PaymentIDMismatch(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM memberships WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(membershipRows("pending", "pending", 8))
	mock.ExpectRollback()

	_, _, err := repo.Activate(context.Background(), ActivateParams{
		MembershipID: 1, PaymentID: 9,
		GatewayOrderID: "order_abc", GatewayPaymentID: "pay_xyz",
	})

	require.ErrorIs(t, err, ErrStateConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_PaymentAlreadyTerminal(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM memberships WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(membershipRows("pending", "pending", 9))
	mock.ExpectExec("UPDATE payments").
		WithArgs("order_abc", "pay_xyz", 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := repo.Activate(context.Background(), ActivateParams{
		MembershipID: 1, PaymentID: 9,
		GatewayOrderID: "order_abc", GatewayPaymentID: "pay_xyz",
	})

	require.ErrorIs(t, err, ErrStateConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate_CreditsLedgerAndCommits(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM memberships WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(membershipRows("pending", "pending", 9))
	mock.ExpectExec("UPDATE payments").
		WithArgs("order_abc", "pay_xyz", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE memberships").
		WithArgs(1).
		WillReturnRows(membershipRows("active", "paid", 9))
	mock.ExpectQuery("SELECT balance_cents FROM users WHERE id = (.+) FOR UPDATE").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"balance_cents"}).AddRow(int64(5000)))
	mock.ExpectExec("UPDATE users SET balance_cents").
		WithArgs(int64(105000), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_log").
		WithArgs(4, int64(100000), "membership_purchase", "Membership purchase credit", int64(105000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	m, alreadyActive, err := repo.Activate(context.Background(), ActivateParams{
		MembershipID: 1, PaymentID: 9,
		GatewayOrderID: "order_abc", GatewayPaymentID: "pay_xyz",
	})

	require.NoError(t, err)
	require.False(t, alreadyActive)
	require.Equal(t, StatusActive, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailure_SecondCallChangesNothing(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM memberships WHERE id = (.+) FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(4))
	mock.ExpectExec("UPDATE payments").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE memberships").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.RecordFailure(context.Background(), 1, 9, `{"error_code":"BAD_CARD"}`)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
