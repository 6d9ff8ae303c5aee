package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MethodKind string

const (
	KindWallet MethodKind = "wallet"
	KindBank   MethodKind = "bank"
	KindCard   MethodKind = "card"
)

type CardType string

const (
	CardTypeCredit CardType = "credit"
	CardTypeDebit  CardType = "debit"
)

type TransactionType string

const (
	TransactionSend    TransactionType = "send"
	TransactionRequest TransactionType = "request"
)

// Categories is the closed set of transaction category labels.
var Categories = []string{
	"bank", "utilities", "transportation", "groceries", "shopping",
	"health", "education", "travel", "housing", "entertainment", "others",
}

type User struct {
	ID           uuid.UUID `db:"id" json:"userId"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"isStaff"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// PaymentMethod is a tagged variant over Kind: exactly one of Wallet, Bank or
// Card is non-nil, matching the kind tag.
type PaymentMethod struct {
	ID        uuid.UUID  `db:"id" json:"methodId"`
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	Kind      MethodKind `db:"kind" json:"kind"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`

	Wallet *Wallet `json:"wallet,omitempty"`
	Bank   *Bank   `json:"bank,omitempty"`
	Card   *Card   `json:"card,omitempty"`
}

type Wallet struct {
	Balance decimal.Decimal `db:"balance" json:"balance"`
}

type Bank struct {
	RoutingNumber string `db:"routing_number" json:"routingNumber"`
	AccountNumber string `db:"account_number" json:"accountNumber"`
	HolderFirst   string `db:"holder_first_name" json:"holderFirstName"`
	HolderLast    string `db:"holder_last_name" json:"holderLastName"`
}

type Card struct {
	Number       string    `db:"card_number" json:"cardNumber"`
	Type         CardType  `db:"card_type" json:"cardType"`
	SecurityCode string    `db:"security_code" json:"-"`
	Expiration   time.Time `db:"expiration_date" json:"expiration"`
	HolderFirst  string    `db:"holder_first_name" json:"holderFirstName"`
	HolderLast   string    `db:"holder_last_name" json:"holderLastName"`
}

// Transaction is an append/complete-once ledger entry. After creation the only
// legal mutation is the completion transition (PaymentMethodID set and
// IsComplete flipped false->true); reversal deletes the row entirely.
type Transaction struct {
	ID              int64           `db:"id" json:"transactionId"`
	Type            TransactionType `db:"type" json:"type"`
	Category        string          `db:"category" json:"category"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Description     string          `db:"description" json:"description"`
	CreatorID       uuid.UUID       `db:"creator_id" json:"creatorId"`
	ReceiverID      uuid.UUID       `db:"receiver_id" json:"receiverId"`
	PaymentMethodID uuid.NullUUID   `db:"payment_method_id" json:"paymentMethodId"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	IsComplete      bool            `db:"is_complete" json:"isComplete"`
}

// Payer returns the user who owes money on this transaction. For a send the
// creator pays; for a request the direction is inverted and the counterparty
// (receiver field) pays.
func (t Transaction) Payer() uuid.UUID {
	if t.Type == TransactionRequest {
		return t.ReceiverID
	}
	return t.CreatorID
}

// Payee returns the user who is owed money on this transaction.
func (t Transaction) Payee() uuid.UUID {
	if t.Type == TransactionRequest {
		return t.CreatorID
	}
	return t.ReceiverID
}

type Activity struct {
	Paid     []Transaction `json:"paid"`
	Received []Transaction `json:"received"`
}
