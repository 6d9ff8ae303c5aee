package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"peerpay/internal/models"
	"peerpay/internal/repository"
)

//go:generate mockgen -source=service.go -destination=../../test/mock_repositories.go -package=test

type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, models.PaymentMethod, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type MethodRepository interface {
	Resolve(ctx context.Context, methodID uuid.UUID) (models.PaymentMethod, error)
	WalletForUser(ctx context.Context, userID uuid.UUID) (models.PaymentMethod, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	CreateBank(ctx context.Context, userID uuid.UUID, bank models.Bank) (models.PaymentMethod, error)
	CreateCard(ctx context.Context, userID uuid.UUID, card models.Card) (models.PaymentMethod, error)
	UpdateCard(ctx context.Context, userID, methodID uuid.UUID, card models.Card) (models.PaymentMethod, error)
	Delete(ctx context.Context, userID, methodID uuid.UUID) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t models.Transaction) (models.Transaction, error)
	GetByID(ctx context.Context, id int64) (models.Transaction, error)
	DeletePending(ctx context.Context, id int64) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	Activity(ctx context.Context, userID uuid.UUID) (models.Activity, error)
}

type SettlementRepository interface {
	SettleNew(ctx context.Context, t models.Transaction, payerMethodID uuid.UUID) (models.Transaction, error)
	SettleExisting(ctx context.Context, transactionID int64, payerID, payerMethodID uuid.UUID) (models.Transaction, error)
	Reverse(ctx context.Context, transactionID int64) error
}

// PaymentService orchestrates registration, payment methods and money
// movement. Precondition failures surface with nothing applied; transient
// storage errors are retried a bounded number of times before bubbling up.
type PaymentService struct {
	users       UserRepository
	methods     MethodRepository
	txs         TransactionRepository
	settlements SettlementRepository
	logger      *slog.Logger
	maxRetries  int
}

func NewPaymentService(
	users UserRepository,
	methods MethodRepository,
	txs TransactionRepository,
	settlements SettlementRepository,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		users:       users,
		methods:     methods,
		txs:         txs,
		settlements: settlements,
		logger:      logger,
		maxRetries:  3,
	}
}

// RegisterUser creates the user and their wallet in one unit of work.
func (s *PaymentService) RegisterUser(ctx context.Context, req models.RegisterUserRequest) (models.User, models.PaymentMethod, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", slog.Any("err", err))
		return models.User{}, models.PaymentMethod{}, err
	}
	user, wallet, err := s.users.Create(ctx, models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.User{}, models.PaymentMethod{}, err
		}
		s.logger.Error("Failed to register user",
			slog.String("email", req.Email),
			slog.Any("err", err),
		)
		return models.User{}, models.PaymentMethod{}, err
	}
	s.logger.Info("Registered user",
		slog.String("user_id", user.ID.String()),
		slog.String("wallet_id", wallet.ID.String()),
	)
	return user, wallet, nil
}

func (s *PaymentService) AddBank(ctx context.Context, userID uuid.UUID, bank models.Bank) (models.PaymentMethod, error) {
	return s.methods.CreateBank(ctx, userID, bank)
}

func (s *PaymentService) AddCard(ctx context.Context, userID uuid.UUID, card models.Card) (models.PaymentMethod, error) {
	return s.methods.CreateCard(ctx, userID, card)
}

func (s *PaymentService) UpdateCard(ctx context.Context, userID, methodID uuid.UUID, card models.Card) (models.PaymentMethod, error) {
	return s.methods.UpdateCard(ctx, userID, methodID, card)
}

func (s *PaymentService) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	return s.methods.ListForUser(ctx, userID)
}

func (s *PaymentService) DeletePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error {
	return s.methods.Delete(ctx, userID, methodID)
}

func (s *PaymentService) WalletBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.methods.WalletForUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Wallet.Balance, nil
}

// Send moves money from the creator's chosen method to the receiver's wallet
// immediately, as one atomic unit. Amount is validated before any row exists.
func (s *PaymentService) Send(ctx context.Context, creatorID uuid.UUID, req models.SendMoneyRequest) (models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return models.Transaction{}, repository.ErrInvalidAmount
	}
	intent := models.Transaction{
		Type:        models.TransactionSend,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		CreatorID:   creatorID,
		ReceiverID:  req.ReceiverID,
	}

	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		t, err := s.settlements.SettleNew(ctx, intent, req.PaymentMethodID)
		if err == nil {
			return t, nil
		}
		if isRetryableError(err) {
			s.logger.Warn("Retrying send",
				slog.String("creator_id", creatorID.String()),
				slog.Int("attempt", i+1),
				slog.Any("err", err),
			)
			time.Sleep(time.Duration(1<<i) * 10 * time.Millisecond)
			lastErr = err
			continue
		}
		if errors.Is(err, repository.ErrInsufficientBalance) {
			s.logger.Warn("Send failed: insufficient balance",
				slog.String("creator_id", creatorID.String()),
				slog.Any("amount", req.Amount),
			)
			return models.Transaction{}, err
		}
		s.logger.Error("Send failed",
			slog.String("creator_id", creatorID.String()),
			slog.Any("amount", req.Amount),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	s.logger.Error("Send failed after retries",
		slog.String("creator_id", creatorID.String()),
		slog.Any("err", lastErr),
	)
	return models.Transaction{}, lastErr
}

// RequestMoney records a pending request: the creator asks the counterparty
// for money. No funds move until the counterparty approves.
func (s *PaymentService) RequestMoney(ctx context.Context, creatorID uuid.UUID, req models.RequestMoneyRequest) (models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return models.Transaction{}, repository.ErrInvalidAmount
	}
	if _, err := s.users.GetByID(ctx, req.CounterpartyID); err != nil {
		return models.Transaction{}, err
	}
	t, err := s.txs.Create(ctx, models.Transaction{
		Type:        models.TransactionRequest,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		CreatorID:   creatorID,
		ReceiverID:  req.CounterpartyID,
	})
	if err != nil {
		s.logger.Error("Request failed",
			slog.String("creator_id", creatorID.String()),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	return t, nil
}

// ApproveRequest settles a pending request with the approver as payer.
func (s *PaymentService) ApproveRequest(ctx context.Context, approverID uuid.UUID, transactionID int64, payerMethodID uuid.UUID) (models.Transaction, error) {
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		t, err := s.settlements.SettleExisting(ctx, transactionID, approverID, payerMethodID)
		if err == nil {
			return t, nil
		}
		if isRetryableError(err) {
			s.logger.Warn("Retrying approve",
				slog.Int64("transaction_id", transactionID),
				slog.Int("attempt", i+1),
				slog.Any("err", err),
			)
			time.Sleep(time.Duration(1<<i) * 10 * time.Millisecond)
			lastErr = err
			continue
		}
		if errors.Is(err, repository.ErrAlreadyComplete) {
			s.logger.Warn("Approve rejected: already complete",
				slog.Int64("transaction_id", transactionID),
			)
			return models.Transaction{}, err
		}
		s.logger.Error("Approve failed",
			slog.Int64("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return models.Transaction{}, err
	}
	s.logger.Error("Approve failed after retries",
		slog.Int64("transaction_id", transactionID),
		slog.Any("err", lastErr),
	)
	return models.Transaction{}, lastErr
}

// CancelRequest deletes a pending request. Either party may cancel; a
// completed transaction cannot be cancelled.
func (s *PaymentService) CancelRequest(ctx context.Context, actorID uuid.UUID, transactionID int64) error {
	t, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if t.Type != models.TransactionRequest {
		return repository.ErrInvalidState
	}
	if t.CreatorID != actorID && t.ReceiverID != actorID {
		return repository.ErrForbidden
	}
	return s.txs.DeletePending(ctx, transactionID)
}

// ReverseTransaction is the staff-only inverse settlement.
func (s *PaymentService) ReverseTransaction(ctx context.Context, actorID uuid.UUID, staff bool, transactionID int64) error {
	if !staff {
		return repository.ErrForbidden
	}
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		err := s.settlements.Reverse(ctx, transactionID)
		if err == nil {
			s.logger.Info("Reversed transaction",
				slog.Int64("transaction_id", transactionID),
				slog.String("staff_id", actorID.String()),
			)
			return nil
		}
		if isRetryableError(err) {
			s.logger.Warn("Retrying reversal",
				slog.Int64("transaction_id", transactionID),
				slog.Int("attempt", i+1),
				slog.Any("err", err),
			)
			time.Sleep(time.Duration(1<<i) * 10 * time.Millisecond)
			lastErr = err
			continue
		}
		s.logger.Error("Reversal failed",
			slog.Int64("transaction_id", transactionID),
			slog.Any("err", err),
		)
		return err
	}
	s.logger.Error("Reversal failed after retries",
		slog.Int64("transaction_id", transactionID),
		slog.Any("err", lastErr),
	)
	return lastErr
}

func (s *PaymentService) GetActivity(ctx context.Context, userID uuid.UUID) (models.Activity, error) {
	return s.txs.Activity(ctx, userID)
}

func (s *PaymentService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.txs.ListPending(ctx, userID)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
