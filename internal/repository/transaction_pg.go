package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peerpay/internal/models"
)

const transactionColumns = `id, type, category, amount, description,
    creator_id, receiver_id, payment_method_id, created_at, is_complete`

// TransactionPGRepository persists transaction records. Rows are immutable
// after creation except for the completion transition, which happens inside
// the settlement unit of work (see SettlementPGRepository).
type TransactionPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewTransactionPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *TransactionPGRepository {
	return &TransactionPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// Create persists a pending request record (payment method unset,
// is_complete false). Send records are created by the settlement unit.
func (r *TransactionPGRepository) Create(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	err := r.pool.QueryRow(ctx, `
        INSERT INTO transactions (type, category, amount, description, creator_id, receiver_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`,
		t.Type, t.Category, t.Amount.Round(2), t.Description, t.CreatorID, t.ReceiverID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert transaction",
			slog.String("creator_id", t.CreatorID.String()),
			slog.Any("amount", t.Amount),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	t.Amount = t.Amount.Round(2)
	return t, nil
}

func (r *TransactionPGRepository) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)
	t, err := scanTransaction(row)
	if err == pgx.ErrNoRows {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get transaction",
			slog.Int64("transaction_id", id),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	return t, nil
}

// DeletePending cancels a pending request. Completed transactions are
// irrevocable here; only reversal removes them.
func (r *TransactionPGRepository) DeletePending(ctx context.Context, id int64) error {
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

	var isComplete bool
	err = tx.QueryRow(ctx,
		"SELECT is_complete FROM transactions WHERE id = $1 FOR UPDATE", id,
	).Scan(&isComplete)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if isComplete {
		return ErrInvalidState
	}
	if _, err := tx.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id); err != nil {
		r.logger.Error("Failed to delete transaction",
			slog.Int64("transaction_id", id),
			slog.Any("err", err),
		)
		return err
	}
	return tx.Commit(ctx)
}

// ListPending returns requests awaiting approval in which the user is a party.
func (r *TransactionPGRepository) ListPending(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return r.list(ctx, `
        SELECT `+transactionColumns+` FROM transactions
        WHERE NOT is_complete AND (creator_id = $1 OR receiver_id = $1)
        ORDER BY created_at DESC`, userID)
}

func (r *TransactionPGRepository) ListCompleted(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return r.list(ctx, `
        SELECT `+transactionColumns+` FROM transactions
        WHERE is_complete AND (creator_id = $1 OR receiver_id = $1)
        ORDER BY created_at DESC`, userID)
}

// Activity splits the user's completed transactions into money out and money
// in. A send pays out from its creator; a completed request pays out from its
// counterparty.
func (r *TransactionPGRepository) Activity(ctx context.Context, userID uuid.UUID) (models.Activity, error) {
	completed, err := r.ListCompleted(ctx, userID)
	if err != nil {
		return models.Activity{}, err
	}
	activity := models.Activity{
		Paid:     []models.Transaction{},
		Received: []models.Transaction{},
	}
	for _, t := range completed {
		if t.Payer() == userID {
			activity.Paid = append(activity.Paid, t)
		} else {
			activity.Received = append(activity.Received, t)
		}
	}
	return activity, nil
}

func (r *TransactionPGRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list transactions",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Category, &t.Amount, &t.Description,
		&t.CreatorID, &t.ReceiverID, &t.PaymentMethodID, &t.CreatedAt, &t.IsComplete)
	return t, err
}
