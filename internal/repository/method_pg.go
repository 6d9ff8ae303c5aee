package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"peerpay/internal/models"
)

// MethodPGRepository is the payment-method registry: it owns the polymorphic
// identity of a funding source and resolves a method id to its concrete record.
type MethodPGRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewMethodPGRepository(pool *pgxpool.Pool, logger *slog.Logger) *MethodPGRepository {
	return &MethodPGRepository{
		pool:   pool,
		logger: logger,
	}
}

// Resolve returns the payment method with its kind-specific payload loaded.
func (r *MethodPGRepository) Resolve(ctx context.Context, methodID uuid.UUID) (models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, kind, created_at FROM payment_methods WHERE id = $1", methodID,
	).Scan(&m.ID, &m.UserID, &m.Kind, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return models.PaymentMethod{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to resolve payment method",
			slog.String("method_id", methodID.String()),
			slog.Any("err", err),
		)
		return models.PaymentMethod{}, err
	}
	if err := r.loadPayload(ctx, &m); err != nil {
		return models.PaymentMethod{}, err
	}
	return m, nil
}

// WalletForUser resolves a user's wallet method. Every user gets one at
// creation, so a miss here signals a consistency violation upstream.
func (r *MethodPGRepository) WalletForUser(ctx context.Context, userID uuid.UUID) (models.PaymentMethod, error) {
	var m models.PaymentMethod
	m.Wallet = &models.Wallet{}
	err := r.pool.QueryRow(ctx, `
        SELECT pm.id, pm.user_id, pm.kind, pm.created_at, w.balance
        FROM payment_methods pm
        JOIN wallets w ON w.method_id = pm.id
        WHERE pm.user_id = $1 AND pm.kind = 'wallet'`, userID,
	).Scan(&m.ID, &m.UserID, &m.Kind, &m.CreatedAt, &m.Wallet.Balance)
	if err == pgx.ErrNoRows {
		return models.PaymentMethod{}, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to resolve wallet",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return models.PaymentMethod{}, err
	}
	return m, nil
}

func (r *MethodPGRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, kind, created_at FROM payment_methods WHERE user_id = $1", userID)
	if err != nil {
		r.logger.Error("Failed to list payment methods",
			slog.String("user_id", userID.String()),
			slog.Any("err", err),
		)
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range methods {
		if err := r.loadPayload(ctx, &methods[i]); err != nil {
			return nil, err
		}
	}
	return methods, nil
}

func (r *MethodPGRepository) CreateBank(ctx context.Context, userID uuid.UUID, bank models.Bank) (models.PaymentMethod, error) {
	if !isDigits(bank.RoutingNumber, 9) {
		return models.PaymentMethod{}, &ValidationError{Field: "routingNumber", Reason: "must be exactly 9 digits"}
	}
	if !isDigits(bank.AccountNumber, 10) {
		return models.PaymentMethod{}, &ValidationError{Field: "accountNumber", Reason: "must be exactly 10 digits"}
	}

	m := models.PaymentMethod{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   models.KindBank,
		Bank:   &bank,
	}
	err := r.insertMethod(ctx, &m, `
        INSERT INTO banks (method_id, routing_number, account_number, holder_first_name, holder_last_name)
        VALUES ($1, $2, $3, $4, $5)`,
		m.ID, bank.RoutingNumber, bank.AccountNumber, bank.HolderFirst, bank.HolderLast)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	return m, nil
}

func (r *MethodPGRepository) CreateCard(ctx context.Context, userID uuid.UUID, card models.Card) (models.PaymentMethod, error) {
	if !isDigits(card.Number, 16) {
		return models.PaymentMethod{}, &ValidationError{Field: "cardNumber", Reason: "must be exactly 16 digits"}
	}
	if card.Type != models.CardTypeCredit && card.Type != models.CardTypeDebit {
		return models.PaymentMethod{}, &ValidationError{Field: "cardType", Reason: "must be credit or debit"}
	}
	if !isDigits(card.SecurityCode, 3) {
		return models.PaymentMethod{}, &ValidationError{Field: "securityCode", Reason: "must be exactly 3 digits"}
	}
	// The card stays valid through the end of its expiry month.
	if monthStart(card.Expiration).Before(monthStart(time.Now())) {
		return models.PaymentMethod{}, &ValidationError{Field: "expiration", Reason: "must not be in the past"}
	}

	m := models.PaymentMethod{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   models.KindCard,
		Card:   &card,
	}
	err := r.insertMethod(ctx, &m, `
        INSERT INTO cards (method_id, card_number, card_type, security_code, expiration_date, holder_first_name, holder_last_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, card.Number, card.Type, card.SecurityCode, card.Expiration, card.HolderFirst, card.HolderLast)
	if err != nil {
		return models.PaymentMethod{}, err
	}
	return m, nil
}

// UpdateCard replaces a card's mutable attributes: security code, expiration
// and holder names. The card number and type are fixed at creation.
func (r *MethodPGRepository) UpdateCard(ctx context.Context, userID, methodID uuid.UUID, card models.Card) (models.PaymentMethod, error) {
	if !isDigits(card.SecurityCode, 3) {
		return models.PaymentMethod{}, &ValidationError{Field: "securityCode", Reason: "must be exactly 3 digits"}
	}
	if monthStart(card.Expiration).Before(monthStart(time.Now())) {
		return models.PaymentMethod{}, &ValidationError{Field: "expiration", Reason: "must not be in the past"}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", slog.Any("err", err))
		return models.PaymentMethod{}, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			r.logger.Error("Failed to rollback transaction", slog.Any("err", err))
		}
	}()

	var ownerID uuid.UUID
	var kind models.MethodKind
	err = tx.QueryRow(ctx,
		"SELECT user_id, kind FROM payment_methods WHERE id = $1 FOR UPDATE", methodID,
	).Scan(&ownerID, &kind)
	if err == pgx.ErrNoRows {
		return models.PaymentMethod{}, ErrNotFound
	}
	if err != nil {
		return models.PaymentMethod{}, err
	}
	if ownerID != userID {
		return models.PaymentMethod{}, ErrForbidden
	}
	if kind != models.KindCard {
		return models.PaymentMethod{}, ErrInvalidState
	}

	_, err = tx.Exec(ctx, `
        UPDATE cards
        SET security_code = $2, expiration_date = $3, holder_first_name = $4, holder_last_name = $5
        WHERE method_id = $1`,
		methodID, card.SecurityCode, card.Expiration, card.HolderFirst, card.HolderLast)
	if err != nil {
		r.logger.Error("Failed to update card",
			slog.String("method_id", methodID.String()),
			slog.Any("err", err),
		)
		return models.PaymentMethod{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.PaymentMethod{}, err
	}
	return r.Resolve(ctx, methodID)
}

// Delete removes a bank or card method together with its registry row. The
// wallet method is permanent. Methods referenced by settled transactions are
// kept to preserve the ledger history.
func (r *MethodPGRepository) Delete(ctx context.Context, userID, methodID uuid.UUID) error {
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

	var ownerID uuid.UUID
	var kind models.MethodKind
	err = tx.QueryRow(ctx,
		"SELECT user_id, kind FROM payment_methods WHERE id = $1 FOR UPDATE", methodID,
	).Scan(&ownerID, &kind)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	if kind == models.KindWallet {
		return ErrInvalidState
	}

	// Subtype rows cascade off the method row.
	_, err = tx.Exec(ctx, "DELETE FROM payment_methods WHERE id = $1", methodID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrInvalidState
		}
		r.logger.Error("Failed to delete payment method",
			slog.String("method_id", methodID.String()),
			slog.Any("err", err),
		)
		return err
	}
	return tx.Commit(ctx)
}

func (r *MethodPGRepository) insertMethod(ctx context.Context, m *models.PaymentMethod, payloadSQL string, payloadArgs ...any) error {
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

	err = tx.QueryRow(ctx,
		"INSERT INTO payment_methods (id, user_id, kind) VALUES ($1, $2, $3) RETURNING created_at",
		m.ID, m.UserID, m.Kind,
	).Scan(&m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		r.logger.Error("Failed to insert payment method",
			slog.String("user_id", m.UserID.String()),
			slog.String("kind", string(m.Kind)),
			slog.Any("err", err),
		)
		return err
	}
	if _, err := tx.Exec(ctx, payloadSQL, payloadArgs...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &ValidationError{Field: "cardNumber", Reason: "already registered"}
		}
		r.logger.Error("Failed to insert method payload",
			slog.String("method_id", m.ID.String()),
			slog.String("kind", string(m.Kind)),
			slog.Any("err", err),
		)
		return err
	}
	return tx.Commit(ctx)
}

func (r *MethodPGRepository) loadPayload(ctx context.Context, m *models.PaymentMethod) error {
	var err error
	switch m.Kind {
	case models.KindWallet:
		m.Wallet = &models.Wallet{}
		err = r.pool.QueryRow(ctx,
			"SELECT balance FROM wallets WHERE method_id = $1", m.ID,
		).Scan(&m.Wallet.Balance)
	case models.KindBank:
		m.Bank = &models.Bank{}
		err = r.pool.QueryRow(ctx, `
            SELECT routing_number, account_number, holder_first_name, holder_last_name
            FROM banks WHERE method_id = $1`, m.ID,
		).Scan(&m.Bank.RoutingNumber, &m.Bank.AccountNumber, &m.Bank.HolderFirst, &m.Bank.HolderLast)
	case models.KindCard:
		m.Card = &models.Card{}
		err = r.pool.QueryRow(ctx, `
            SELECT card_number, card_type, security_code, expiration_date, holder_first_name, holder_last_name
            FROM cards WHERE method_id = $1`, m.ID,
		).Scan(&m.Card.Number, &m.Card.Type, &m.Card.SecurityCode, &m.Card.Expiration, &m.Card.HolderFirst, &m.Card.HolderLast)
	}
	if err == pgx.ErrNoRows {
		// The kind tag and concrete record must always agree.
		r.logger.Error("Payment method missing its concrete record",
			slog.String("method_id", m.ID.String()),
			slog.String("kind", string(m.Kind)),
		)
		return ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load method payload",
			slog.String("method_id", m.ID.String()),
			slog.Any("err", err),
		)
	}
	return err
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
