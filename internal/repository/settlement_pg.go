package repository

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"peerpay/internal/models"
)

// SettlementPGRepository runs the atomic settlement unit: resolve the payer
// method, apply the ledger deltas and flip the transaction's completion flag,
// all inside one database transaction. applyDelta is the only write path to a
// wallet balance anywhere in the codebase.
type SettlementPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSettlementPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *SettlementPGRepository {
	return &SettlementPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// SettleNew creates a send record and settles it in the same unit of work.
func (r *SettlementPGRepository) SettleNew(ctx context.Context, t models.Transaction, payerMethodID uuid.UUID) (models.Transaction, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return models.Transaction{}, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	t.Amount = t.Amount.Round(2)
	err = tx.QueryRow(ctx, `
        INSERT INTO transactions (type, category, amount, description, creator_id, receiver_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`,
		t.Type, t.Category, t.Amount, t.Description, t.CreatorID, t.ReceiverID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// Unknown creator or receiver.
			return models.Transaction{}, ErrNotFound
		}
		r.logger.Error("Failed to insert send transaction",
			slog.String("creator_id", t.CreatorID.String()),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}

	if err := r.settle(ctx, tx, &t, t.CreatorID, payerMethodID); err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit settlement",
			slog.Int64("transaction_id", t.ID),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	return t, nil
}

// SettleExisting settles a pending request: the approver pays, the original
// creator receives. The completion guard inside settle makes a second approve
// of the same id fail with ErrAlreadyComplete.
func (r *SettlementPGRepository) SettleExisting(ctx context.Context, transactionID int64, payerID, payerMethodID uuid.UUID) (models.Transaction, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return models.Transaction{}, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	row := tx.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 FOR UPDATE", transactionID)
	t, err := scanTransaction(row)
	if err == pgx.ErrNoRows {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to lock transaction",
			slog.Int64("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	if t.IsComplete {
		return models.Transaction{}, ErrAlreadyComplete
	}
	if t.Type != models.TransactionRequest {
		return models.Transaction{}, ErrInvalidState
	}
	// Only the counterparty who owes the money may approve.
	if t.ReceiverID != payerID {
		return models.Transaction{}, ErrForbidden
	}

	if err := r.settle(ctx, tx, &t, payerID, payerMethodID); err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit settlement",
			slog.Int64("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	return t, nil
}

// settle moves t.Amount from the payer's method to the payee's wallet and
// marks the record complete, within the caller's open database transaction.
// Precondition failures surface in a fixed order: method resolution and
// ownership, payer balance, payee wallet resolution.
func (r *SettlementPGRepository) settle(ctx context.Context, tx pgx.Tx, t *models.Transaction, payerID, payerMethodID uuid.UUID) error {
	var ownerID uuid.UUID
	var kind models.MethodKind
	err := tx.QueryRow(ctx,
		"SELECT user_id, kind FROM payment_methods WHERE id = $1", payerMethodID,
	).Scan(&ownerID, &kind)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != payerID {
		return ErrForbidden
	}

	// Cheap read so an underfunded wallet is reported before any further
	// resolution; the locked delta below re-checks it authoritatively.
	if kind == models.KindWallet {
		var balance decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT balance FROM wallets WHERE method_id = $1", payerMethodID,
		).Scan(&balance)
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if balance.LessThan(t.Amount) {
			return ErrInsufficientBalance
		}
	}

	payeeWalletID, err := r.walletMethodID(ctx, tx, t.Payee())
	if err != nil {
		return err
	}

	// Bank and card methods are externally funded: only the credit side
	// touches the ledger for those.
	deltas := []walletDelta{{payeeWalletID, t.Amount}}
	if kind == models.KindWallet {
		deltas = append(deltas, walletDelta{payerMethodID, t.Amount.Neg()})
	}
	if err := r.applyOrdered(ctx, tx, deltas); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
        UPDATE transactions SET payment_method_id = $2, is_complete = TRUE
        WHERE id = $1 AND NOT is_complete`,
		t.ID, payerMethodID)
	if err != nil {
		r.logger.Error("Failed to complete transaction",
			slog.Int64("transaction_id", t.ID),
			slog.Any("err", err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyComplete
	}
	t.PaymentMethodID = uuid.NullUUID{UUID: payerMethodID, Valid: true}
	t.IsComplete = true
	return nil
}

// Reverse undoes a completed wallet-funded transaction: inverse deltas, then
// the record is deleted. The payee's wallet must still cover the refund; a
// reversal is never allowed to drive a balance negative.
func (r *SettlementPGRepository) Reverse(ctx context.Context, transactionID int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	row := tx.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 FOR UPDATE", transactionID)
	t, err := scanTransaction(row)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !t.IsComplete || !t.PaymentMethodID.Valid {
		return ErrInvalidState
	}

	var kind models.MethodKind
	err = tx.QueryRow(ctx,
		"SELECT kind FROM payment_methods WHERE id = $1", t.PaymentMethodID.UUID,
	).Scan(&kind)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if kind != models.KindWallet {
		return ErrInvalidState
	}

	payeeWalletID, err := r.walletMethodID(ctx, tx, t.Payee())
	if err != nil {
		return err
	}
	deltas := []walletDelta{
		{t.PaymentMethodID.UUID, t.Amount},
		{payeeWalletID, t.Amount.Neg()},
	}
	if err := r.applyOrdered(ctx, tx, deltas); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM transactions WHERE id = $1", transactionID); err != nil {
		r.logger.Error("Failed to delete reversed transaction",
			slog.Int64("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return err
	}
	return tx.Commit(ctx)
}

type walletDelta struct {
	methodID uuid.UUID
	amount   decimal.Decimal
}

// applyOrdered applies deltas in ascending method-id order so that concurrent
// opposite-direction settlements between the same pair of wallets cannot
// deadlock on their row locks.
func (r *SettlementPGRepository) applyOrdered(ctx context.Context, tx pgx.Tx, deltas []walletDelta) error {
	if len(deltas) == 2 && bytes.Compare(deltas[1].methodID[:], deltas[0].methodID[:]) < 0 {
		deltas[0], deltas[1] = deltas[1], deltas[0]
	}
	for _, d := range deltas {
		if err := r.applyDelta(ctx, tx, d.methodID, d.amount); err != nil {
			return err
		}
	}
	return nil
}

// applyDelta adds a signed amount to a wallet balance under a row lock.
// Arithmetic happens before the round so repeated writes cannot accumulate
// rounding drift.
func (r *SettlementPGRepository) applyDelta(ctx context.Context, tx pgx.Tx, walletMethodID uuid.UUID, amount decimal.Decimal) error {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT balance FROM wallets WHERE method_id = $1 FOR UPDATE", walletMethodID,
	).Scan(&balance)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to lock wallet",
			slog.String("method_id", walletMethodID.String()),
			slog.Any("err", err),
		)
		return err
	}

	newBalance := balance.Add(amount).Round(2)
	if newBalance.IsNegative() {
		return ErrInsufficientBalance
	}
	_, err = tx.Exec(ctx,
		"UPDATE wallets SET balance = $1 WHERE method_id = $2", newBalance, walletMethodID)
	if err != nil {
		r.logger.Error("Failed to update wallet balance",
			slog.String("method_id", walletMethodID.String()),
			slog.Any("err", err),
		)
	}
	return err
}

func (r *SettlementPGRepository) walletMethodID(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx,
		"SELECT id FROM payment_methods WHERE user_id = $1 AND kind = 'wallet'", userID,
	).Scan(&id)
	if err == pgx.ErrNoRows {
		// Every user is given a wallet at creation; treat a miss as a
		// consistency-violation signal.
		r.logger.Error("User has no wallet", slog.String("user_id", userID.String()))
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
