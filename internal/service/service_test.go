package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerpay/internal/models"
	"peerpay/internal/repository"
	"peerpay/internal/service"
	"peerpay/internal/testutil"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupService(t *testing.T) (*service.PaymentService, *pgxpool.Pool, func()) {
	pool, teardown := testutil.SetupTestDB(t)
	users := repository.NewUserPGRepository(pool, testLogger)
	methods := repository.NewMethodPGRepository(pool, testLogger)
	txs := repository.NewTransactionPGRepository(pool, testLogger)
	settlements := repository.NewSettlementPGRepository(pool, testLogger)
	return service.NewPaymentService(users, methods, txs, settlements, testLogger), pool, teardown
}

func register(t *testing.T, svc *service.PaymentService, email string) (models.User, models.PaymentMethod) {
	user, wallet, err := svc.RegisterUser(context.Background(), models.RegisterUserRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)
	return user, wallet
}

func fund(t *testing.T, pool *pgxpool.Pool, methodID uuid.UUID, balance string) {
	_, err := pool.Exec(context.Background(),
		"UPDATE wallets SET balance = $1 WHERE method_id = $2", balance, methodID)
	require.NoError(t, err)
}

func TestRegisterUser_CreatesWallet(t *testing.T) {
	svc, _, teardown := setupService(t)
	defer teardown()

	user, wallet := register(t, svc, "new@example.com")
	assert.Equal(t, models.KindWallet, wallet.Kind)
	assert.Equal(t, user.ID, wallet.UserID)

	balance, err := svc.WalletBalance(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.Zero))
}

func TestSend_InvalidAmount(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	sender, senderWallet := register(t, svc, "sender@example.com")
	receiver, _ := register(t, svc, "receiver@example.com")
	fund(t, pool, senderWallet.ID, "100.00")

	for _, amount := range []string{"0", "-5.00"} {
		_, err := svc.Send(context.Background(), sender.ID, models.SendMoneyRequest{
			ReceiverID:      receiver.ID,
			Amount:          decimal.RequireFromString(amount),
			Category:        "others",
			PaymentMethodID: senderWallet.ID,
		})
		assert.ErrorIs(t, err, repository.ErrInvalidAmount)
	}

	// Rejected before any record exists.
	var n int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM transactions").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSend_UnknownReceiver(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	sender, senderWallet := register(t, svc, "sender@example.com")
	fund(t, pool, senderWallet.ID, "100.00")

	_, err := svc.Send(context.Background(), sender.ID, models.SendMoneyRequest{
		ReceiverID:      uuid.New(),
		Amount:          decimal.RequireFromString("10.00"),
		Category:        "others",
		PaymentMethodID: senderWallet.ID,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	balance, err := svc.WalletBalance(context.Background(), sender.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestRequestApproveFlow(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	userA, _ := register(t, svc, "a@example.com")
	userB, walletB := register(t, svc, "b@example.com")
	fund(t, pool, walletB.ID, "100.00")

	pending, err := svc.RequestMoney(context.Background(), userA.ID, models.RequestMoneyRequest{
		CounterpartyID: userB.ID,
		Amount:         decimal.NewFromInt(50),
		Category:       "groceries",
		Description:    "split dinner",
	})
	require.NoError(t, err)
	assert.False(t, pending.IsComplete)

	listed, err := svc.ListPendingRequests(context.Background(), userB.ID)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	settled, err := svc.ApproveRequest(context.Background(), userB.ID, pending.ID, walletB.ID)
	assert.NoError(t, err)
	assert.True(t, settled.IsComplete)
	assert.Equal(t, walletB.ID, settled.PaymentMethodID.UUID)

	balanceA, err := svc.WalletBalance(context.Background(), userA.ID)
	assert.NoError(t, err)
	assert.True(t, balanceA.Equal(decimal.NewFromInt(50)))
	balanceB, err := svc.WalletBalance(context.Background(), userB.ID)
	assert.NoError(t, err)
	assert.True(t, balanceB.Equal(decimal.NewFromInt(50)))

	_, err = svc.ApproveRequest(context.Background(), userB.ID, pending.ID, walletB.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyComplete)
}

func TestRequestMoney_UnknownCounterparty(t *testing.T) {
	svc, _, teardown := setupService(t)
	defer teardown()
	userA, _ := register(t, svc, "a@example.com")

	_, err := svc.RequestMoney(context.Background(), userA.ID, models.RequestMoneyRequest{
		CounterpartyID: uuid.New(),
		Amount:         decimal.NewFromInt(50),
		Category:       "others",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelRequest(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	userA, _ := register(t, svc, "a@example.com")
	userB, walletB := register(t, svc, "b@example.com")
	stranger, _ := register(t, svc, "stranger@example.com")
	fund(t, pool, walletB.ID, "100.00")

	pending, err := svc.RequestMoney(context.Background(), userA.ID, models.RequestMoneyRequest{
		CounterpartyID: userB.ID,
		Amount:         decimal.NewFromInt(50),
		Category:       "others",
	})
	require.NoError(t, err)

	// Only a party to the request may cancel it.
	err = svc.CancelRequest(context.Background(), stranger.ID, pending.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// The counterparty may cancel; no funds move.
	err = svc.CancelRequest(context.Background(), userB.ID, pending.ID)
	assert.NoError(t, err)
	balanceB, err := svc.WalletBalance(context.Background(), userB.ID)
	assert.NoError(t, err)
	assert.True(t, balanceB.Equal(decimal.NewFromInt(100)))

	err = svc.CancelRequest(context.Background(), userB.ID, pending.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelRequest_CompletedIsFinal(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	userA, _ := register(t, svc, "a@example.com")
	userB, walletB := register(t, svc, "b@example.com")
	fund(t, pool, walletB.ID, "100.00")

	pending, err := svc.RequestMoney(context.Background(), userA.ID, models.RequestMoneyRequest{
		CounterpartyID: userB.ID,
		Amount:         decimal.NewFromInt(50),
		Category:       "others",
	})
	require.NoError(t, err)
	_, err = svc.ApproveRequest(context.Background(), userB.ID, pending.ID, walletB.ID)
	require.NoError(t, err)

	err = svc.CancelRequest(context.Background(), userA.ID, pending.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidState)
}

func TestReverseTransaction_StaffOnly(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	sender, senderWallet := register(t, svc, "sender@example.com")
	receiver, _ := register(t, svc, "receiver@example.com")
	fund(t, pool, senderWallet.ID, "100.00")

	tx, err := svc.Send(context.Background(), sender.ID, models.SendMoneyRequest{
		ReceiverID:      receiver.ID,
		Amount:          decimal.NewFromInt(20),
		Category:        "others",
		PaymentMethodID: senderWallet.ID,
	})
	require.NoError(t, err)

	err = svc.ReverseTransaction(context.Background(), sender.ID, false, tx.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	err = svc.ReverseTransaction(context.Background(), uuid.New(), true, tx.ID)
	assert.NoError(t, err)

	balance, err := svc.WalletBalance(context.Background(), sender.ID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100)))
}

func TestGetActivity(t *testing.T) {
	svc, pool, teardown := setupService(t)
	defer teardown()
	userA, walletA := register(t, svc, "a@example.com")
	userB, walletB := register(t, svc, "b@example.com")
	fund(t, pool, walletA.ID, "100.00")
	fund(t, pool, walletB.ID, "100.00")

	_, err := svc.Send(context.Background(), userA.ID, models.SendMoneyRequest{
		ReceiverID:      userB.ID,
		Amount:          decimal.NewFromInt(10),
		Category:        "others",
		PaymentMethodID: walletA.ID,
	})
	require.NoError(t, err)

	pending, err := svc.RequestMoney(context.Background(), userA.ID, models.RequestMoneyRequest{
		CounterpartyID: userB.ID,
		Amount:         decimal.NewFromInt(5),
		Category:       "others",
	})
	require.NoError(t, err)
	_, err = svc.ApproveRequest(context.Background(), userB.ID, pending.ID, walletB.ID)
	require.NoError(t, err)

	activity, err := svc.GetActivity(context.Background(), userA.ID)
	assert.NoError(t, err)
	// A paid the send and received the approved request.
	assert.Len(t, activity.Paid, 1)
	assert.Len(t, activity.Received, 1)

	activity, err = svc.GetActivity(context.Background(), userB.ID)
	assert.NoError(t, err)
	assert.Len(t, activity.Paid, 1)
	assert.Len(t, activity.Received, 1)
}
