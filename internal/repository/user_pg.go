package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"peerpay/internal/models"
)

type UserPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *UserPGRepository {
	return &UserPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// Create inserts the user together with their wallet payment method in one
// transaction. Every user owns exactly one wallet from the moment they exist.
func (r *UserPGRepository) Create(ctx context.Context, user models.User) (models.User, models.PaymentMethod, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return models.User{}, models.PaymentMethod{}, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	user.ID = uuid.New()
	err = tx.QueryRow(ctx, `
        INSERT INTO users (id, first_name, last_name, email, password_hash, is_staff)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.IsStaff,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, models.PaymentMethod{}, ErrEmailTaken
		}
		r.logger.Error("Failed to insert user",
			slog.String("email", user.Email),
			slog.Any("err", err),
		)
		return models.User{}, models.PaymentMethod{}, err
	}

	wallet := models.PaymentMethod{
		ID:     uuid.New(),
		UserID: user.ID,
		Kind:   models.KindWallet,
		Wallet: &models.Wallet{},
	}
	err = tx.QueryRow(ctx, `
        INSERT INTO payment_methods (id, user_id, kind)
        VALUES ($1, $2, 'wallet')
        RETURNING created_at`,
		wallet.ID, user.ID,
	).Scan(&wallet.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert wallet method",
			slog.String("user_id", user.ID.String()),
			slog.Any("err", err),
		)
		return models.User{}, models.PaymentMethod{}, err
	}
	_, err = tx.Exec(ctx, "INSERT INTO wallets (method_id, balance) VALUES ($1, 0)", wallet.ID)
	if err != nil {
		r.logger.Error("Failed to insert wallet balance row",
			slog.String("method_id", wallet.ID.String()),
			slog.Any("err", err),
		)
		return models.User{}, models.PaymentMethod{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit transaction",
			slog.String("user_id", user.ID.String()),
			slog.Any("err", err),
		)
		return models.User{}, models.PaymentMethod{}, err
	}
	return user, wallet, nil
}

func (r *UserPGRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
        SELECT id, first_name, last_name, email, password_hash, is_staff, created_at
        FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsStaff, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get user",
			slog.String("user_id", id.String()),
			slog.Any("err", err),
		)
		return models.User{}, err
	}
	return u, nil
}
