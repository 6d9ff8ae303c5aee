package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterUserRequest struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=45"`
	LastName  string `json:"lastName" binding:"required,min=2,max=45"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
}

type AddBankRequest struct {
	RoutingNumber string `json:"routingNumber" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	HolderFirst   string `json:"holderFirstName" binding:"required,max=45"`
	HolderLast    string `json:"holderLastName" binding:"required,max=45"`
}

type AddCardRequest struct {
	CardNumber   string `json:"cardNumber" binding:"required"`
	CardType     string `json:"cardType" binding:"required,oneof=credit debit"`
	SecurityCode string `json:"securityCode" binding:"required"`
	// Expiration is the card's expiry month in "2006-01" form.
	Expiration  string `json:"expiration" binding:"required"`
	HolderFirst string `json:"holderFirstName" binding:"required,max=45"`
	HolderLast  string `json:"holderLastName" binding:"required,max=45"`
}

// UpdateCardRequest carries the mutable card attributes. The number and type
// identify the card and cannot change.
type UpdateCardRequest struct {
	SecurityCode string `json:"securityCode" binding:"required"`
	Expiration   string `json:"expiration" binding:"required"`
	HolderFirst  string `json:"holderFirstName" binding:"required,max=45"`
	HolderLast   string `json:"holderLastName" binding:"required,max=45"`
}

type SendMoneyRequest struct {
	ReceiverID      uuid.UUID       `json:"receiverId" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Category        string          `json:"category" binding:"required,oneof=bank utilities transportation groceries shopping health education travel housing entertainment others"`
	Description     string          `json:"description" binding:"max=200"`
	PaymentMethodID uuid.UUID       `json:"paymentMethodId" binding:"required"`
}

type RequestMoneyRequest struct {
	CounterpartyID uuid.UUID       `json:"counterpartyId" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Category       string          `json:"category" binding:"required,oneof=bank utilities transportation groceries shopping health education travel housing entertainment others"`
	Description    string          `json:"description" binding:"max=200"`
}

type ApproveRequestRequest struct {
	PaymentMethodID uuid.UUID `json:"paymentMethodId" binding:"required"`
}
