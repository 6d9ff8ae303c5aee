package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"peerpay/internal/middleware"
	"peerpay/internal/models"
	"peerpay/internal/repository"
)

//go:generate mockgen -source=http_handlers.go -destination=../../test/mock_payment_service.go -package=test PaymentService

type PaymentService interface {
	RegisterUser(ctx context.Context, req models.RegisterUserRequest) (models.User, models.PaymentMethod, error)
	AddBank(ctx context.Context, userID uuid.UUID, bank models.Bank) (models.PaymentMethod, error)
	AddCard(ctx context.Context, userID uuid.UUID, card models.Card) (models.PaymentMethod, error)
	UpdateCard(ctx context.Context, userID, methodID uuid.UUID, card models.Card) (models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, userID, methodID uuid.UUID) error
	WalletBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Send(ctx context.Context, creatorID uuid.UUID, req models.SendMoneyRequest) (models.Transaction, error)
	RequestMoney(ctx context.Context, creatorID uuid.UUID, req models.RequestMoneyRequest) (models.Transaction, error)
	ApproveRequest(ctx context.Context, approverID uuid.UUID, transactionID int64, payerMethodID uuid.UUID) (models.Transaction, error)
	CancelRequest(ctx context.Context, actorID uuid.UUID, transactionID int64) error
	ReverseTransaction(ctx context.Context, actorID uuid.UUID, staff bool, transactionID int64) error
	GetActivity(ctx context.Context, userID uuid.UUID) (models.Activity, error)
	ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type PaymentHTTPHandler struct {
	service PaymentService
	jwtKey  []byte
}

func NewPaymentHTTPHandler(service PaymentService, jwtKey []byte) *PaymentHTTPHandler {
	return &PaymentHTTPHandler{service: service, jwtKey: jwtKey}
}

func (h *PaymentHTTPHandler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.POST("/users", h.HandleRegisterUser)

	auth := v1.Group("", middleware.Auth(h.jwtKey))
	{
		auth.GET("/wallet", h.HandleWalletBalance)
		auth.GET("/payment-methods", h.HandleListPaymentMethods)
		auth.POST("/payment-methods/bank", h.HandleAddBank)
		auth.POST("/payment-methods/card", h.HandleAddCard)
		auth.PUT("/payment-methods/card/:method_id", h.HandleUpdateCard)
		auth.DELETE("/payment-methods/:method_id", h.HandleDeletePaymentMethod)
		auth.POST("/transactions/send", h.HandleSend)
		auth.POST("/transactions/request", h.HandleRequestMoney)
		auth.POST("/transactions/:transaction_id/approve", h.HandleApproveRequest)
		auth.DELETE("/transactions/:transaction_id", h.HandleCancelRequest)
		auth.POST("/transactions/:transaction_id/reverse", h.HandleReverseTransaction)
		auth.GET("/transactions/pending", h.HandleListPending)
		auth.GET("/activity", h.HandleActivity)
	}
}

func (h *PaymentHTTPHandler) HandleRegisterUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	user, wallet, err := h.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "wallet": wallet})
}

func (h *PaymentHTTPHandler) HandleWalletBalance(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	balance, err := h.service.WalletBalance(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance.StringFixed(2)})
}

func (h *PaymentHTTPHandler) HandleListPaymentMethods(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	methods, err := h.service.ListPaymentMethods(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

func (h *PaymentHTTPHandler) HandleAddBank(c *gin.Context) {
	var req models.AddBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	actorID, _ := middleware.Actor(c)
	method, err := h.service.AddBank(c.Request.Context(), actorID, models.Bank{
		RoutingNumber: req.RoutingNumber,
		AccountNumber: req.AccountNumber,
		HolderFirst:   req.HolderFirst,
		HolderLast:    req.HolderLast,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *PaymentHTTPHandler) HandleAddCard(c *gin.Context) {
	var req models.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	expiration, err := time.Parse("2006-01", req.Expiration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiration, expected YYYY-MM"})
		return
	}
	actorID, _ := middleware.Actor(c)
	method, err := h.service.AddCard(c.Request.Context(), actorID, models.Card{
		Number:       req.CardNumber,
		Type:         models.CardType(req.CardType),
		SecurityCode: req.SecurityCode,
		Expiration:   expiration,
		HolderFirst:  req.HolderFirst,
		HolderLast:   req.HolderLast,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, method)
}

func (h *PaymentHTTPHandler) HandleUpdateCard(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("method_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid method_id"})
		return
	}
	var req models.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	expiration, err := time.Parse("2006-01", req.Expiration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiration, expected YYYY-MM"})
		return
	}
	actorID, _ := middleware.Actor(c)
	method, err := h.service.UpdateCard(c.Request.Context(), actorID, methodID, models.Card{
		SecurityCode: req.SecurityCode,
		Expiration:   expiration,
		HolderFirst:  req.HolderFirst,
		HolderLast:   req.HolderLast,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, method)
}

func (h *PaymentHTTPHandler) HandleDeletePaymentMethod(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("method_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid method_id"})
		return
	}
	actorID, _ := middleware.Actor(c)
	if err := h.service.DeletePaymentMethod(c.Request.Context(), actorID, methodID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PaymentHTTPHandler) HandleSend(c *gin.Context) {
	var req models.SendMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	actorID, _ := middleware.Actor(c)
	t, err := h.service.Send(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *PaymentHTTPHandler) HandleRequestMoney(c *gin.Context) {
	var req models.RequestMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	actorID, _ := middleware.Actor(c)
	t, err := h.service.RequestMoney(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *PaymentHTTPHandler) HandleApproveRequest(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("transaction_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction_id"})
		return
	}
	var req models.ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	actorID, _ := middleware.Actor(c)
	t, err := h.service.ApproveRequest(c.Request.Context(), actorID, transactionID, req.PaymentMethodID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *PaymentHTTPHandler) HandleCancelRequest(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("transaction_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction_id"})
		return
	}
	actorID, _ := middleware.Actor(c)
	if err := h.service.CancelRequest(c.Request.Context(), actorID, transactionID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PaymentHTTPHandler) HandleReverseTransaction(c *gin.Context) {
	transactionID, err := strconv.ParseInt(c.Param("transaction_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction_id"})
		return
	}
	actorID, staff := middleware.Actor(c)
	if err := h.service.ReverseTransaction(c.Request.Context(), actorID, staff, transactionID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PaymentHTTPHandler) HandleListPending(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	pending, err := h.service.ListPendingRequests(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (h *PaymentHTTPHandler) HandleActivity(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	activity, err := h.service.GetActivity(c.Request.Context(), actorID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, activity)
}

func statusFor(err error) int {
	var vErr *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrInvalidAmount), errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrInsufficientBalance),
		errors.Is(err, repository.ErrInvalidState),
		errors.Is(err, repository.ErrAlreadyComplete):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
