package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"peerpay/internal/handlers"
	"peerpay/internal/models"
	"peerpay/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTKey = []byte("handler-test-secret")

func newTestRouter(t *testing.T) (*gin.Engine, *MockPaymentService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := NewMockPaymentService(ctrl)
	handler := handlers.NewPaymentHTTPHandler(mockService, testJWTKey)
	r := gin.Default()
	handler.RegisterRoutes(r)
	return r, mockService
}

func bearerToken(t *testing.T, userID uuid.UUID, staff bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"staff": staff,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testJWTKey)
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestHandleRegisterUser_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	req := models.RegisterUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	}
	userID := uuid.New()
	mockService.EXPECT().
		RegisterUser(gomock.Any(), req).
		Return(
			models.User{ID: userID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			models.PaymentMethod{ID: uuid.New(), UserID: userID, Kind: models.KindWallet, Wallet: &models.Wallet{}},
			nil,
		)

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	assert.Contains(t, w.Body.String(), "wallet")
}

func TestHandleRegisterUser_EmailTaken(t *testing.T) {
	r, mockService := newTestRouter(t)

	mockService.EXPECT().
		RegisterUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, models.PaymentMethod{}, repository.ErrEmailTaken)

	body, _ := json.Marshal(models.RegisterUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestHandleRegisterUser_InvalidBody(t *testing.T) {
	r, _ := newTestRouter(t)

	body := []byte(`{"firstName": "A", "email": "not-an-email"}`)
	httpReq, _ := http.NewRequest("POST", "/api/v1/users", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request")
}

func TestAuth_MissingToken(t *testing.T) {
	r, _ := newTestRouter(t)

	httpReq, _ := http.NewRequest("GET", "/api/v1/wallet", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization header is required")
}

func TestAuth_WrongKey(t *testing.T) {
	r, _ := newTestRouter(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	httpReq, _ := http.NewRequest("GET", "/api/v1/wallet", nil)
	httpReq.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestHandleWalletBalance_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	mockService.EXPECT().
		WalletBalance(gomock.Any(), userID).
		Return(decimal.RequireFromString("120.50"), nil)

	httpReq, _ := http.NewRequest("GET", "/api/v1/wallet", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "120.50")
}

func TestHandleSend_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	senderID := uuid.New()
	req := models.SendMoneyRequest{
		ReceiverID:      uuid.New(),
		Amount:          decimal.RequireFromString("25"),
		Category:        "groceries",
		Description:     "weekly shop",
		PaymentMethodID: uuid.New(),
	}
	mockService.EXPECT().
		Send(gomock.Any(), senderID, req).
		Return(models.Transaction{ID: 7, Type: models.TransactionSend, Amount: req.Amount, IsComplete: true}, nil)

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/send", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, senderID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"transactionId":7`)
}

func TestHandleSend_InsufficientBalance(t *testing.T) {
	r, mockService := newTestRouter(t)

	senderID := uuid.New()
	mockService.EXPECT().
		Send(gomock.Any(), senderID, gomock.Any()).
		Return(models.Transaction{}, repository.ErrInsufficientBalance)

	body, _ := json.Marshal(models.SendMoneyRequest{
		ReceiverID:      uuid.New(),
		Amount:          decimal.RequireFromString("9000.00"),
		Category:        "others",
		PaymentMethodID: uuid.New(),
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/send", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, senderID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient balance")
}

func TestHandleSend_UnknownCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"receiverId":      uuid.New(),
		"amount":          "10.00",
		"category":        "yachts",
		"paymentMethodId": uuid.New(),
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/send", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, uuid.New(), false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRequestMoney_UnknownCounterparty(t *testing.T) {
	r, mockService := newTestRouter(t)

	requesterID := uuid.New()
	mockService.EXPECT().
		RequestMoney(gomock.Any(), requesterID, gomock.Any()).
		Return(models.Transaction{}, repository.ErrNotFound)

	body, _ := json.Marshal(models.RequestMoneyRequest{
		CounterpartyID: uuid.New(),
		Amount:         decimal.RequireFromString("15.00"),
		Category:       "utilities",
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/request", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, requesterID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleApproveRequest_AlreadyComplete(t *testing.T) {
	r, mockService := newTestRouter(t)

	approverID := uuid.New()
	methodID := uuid.New()
	mockService.EXPECT().
		ApproveRequest(gomock.Any(), approverID, int64(42), methodID).
		Return(models.Transaction{}, repository.ErrAlreadyComplete)

	body, _ := json.Marshal(models.ApproveRequestRequest{PaymentMethodID: methodID})
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/42/approve", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, approverID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "transaction already complete")
}

func TestHandleApproveRequest_BadTransactionID(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(models.ApproveRequestRequest{PaymentMethodID: uuid.New()})
	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/not-a-number/approve", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, uuid.New(), false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid transaction_id")
}

func TestHandleCancelRequest_Forbidden(t *testing.T) {
	r, mockService := newTestRouter(t)

	strangerID := uuid.New()
	mockService.EXPECT().
		CancelRequest(gomock.Any(), strangerID, int64(9)).
		Return(repository.ErrForbidden)

	httpReq, _ := http.NewRequest("DELETE", "/api/v1/transactions/9", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, strangerID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleCancelRequest_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	actorID := uuid.New()
	mockService.EXPECT().
		CancelRequest(gomock.Any(), actorID, int64(9)).
		Return(nil)

	httpReq, _ := http.NewRequest("DELETE", "/api/v1/transactions/9", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, actorID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleReverseTransaction_StaffFlagPropagates(t *testing.T) {
	r, mockService := newTestRouter(t)

	staffID := uuid.New()
	mockService.EXPECT().
		ReverseTransaction(gomock.Any(), staffID, true, int64(3)).
		Return(nil)

	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/3/reverse", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, staffID, true))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleReverseTransaction_NonStaffForbidden(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	mockService.EXPECT().
		ReverseTransaction(gomock.Any(), userID, false, int64(3)).
		Return(repository.ErrForbidden)

	httpReq, _ := http.NewRequest("POST", "/api/v1/transactions/3/reverse", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleAddCard_InvalidExpiration(t *testing.T) {
	r, _ := newTestRouter(t)

	body, _ := json.Marshal(models.AddCardRequest{
		CardNumber:   "4111111111111111",
		CardType:     "credit",
		SecurityCode: "123",
		Expiration:   "13/2027",
		HolderFirst:  "Ada",
		HolderLast:   "Lovelace",
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/payment-methods/card", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, uuid.New(), false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid expiration")
}

func TestHandleUpdateCard_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	methodID := uuid.New()
	expiration, _ := time.Parse("2006-01", "2028-06")
	card := models.Card{
		SecurityCode: "456",
		Expiration:   expiration,
		HolderFirst:  "Ada",
		HolderLast:   "Lovelace",
	}
	mockService.EXPECT().
		UpdateCard(gomock.Any(), userID, methodID, card).
		Return(models.PaymentMethod{ID: methodID, UserID: userID, Kind: models.KindCard, Card: &card}, nil)

	body, _ := json.Marshal(models.UpdateCardRequest{
		SecurityCode: "456",
		Expiration:   "2028-06",
		HolderFirst:  "Ada",
		HolderLast:   "Lovelace",
	})
	httpReq, _ := http.NewRequest("PUT", "/api/v1/payment-methods/card/"+methodID.String(), bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"card"`)
}

func TestHandleUpdateCard_NotOwnedMapsToForbidden(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	methodID := uuid.New()
	mockService.EXPECT().
		UpdateCard(gomock.Any(), userID, methodID, gomock.Any()).
		Return(models.PaymentMethod{}, repository.ErrForbidden)

	body, _ := json.Marshal(models.UpdateCardRequest{
		SecurityCode: "456",
		Expiration:   "2028-06",
		HolderFirst:  "Ada",
		HolderLast:   "Lovelace",
	})
	httpReq, _ := http.NewRequest("PUT", "/api/v1/payment-methods/card/"+methodID.String(), bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleAddBank_ValidationErrorMapsToBadRequest(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	mockService.EXPECT().
		AddBank(gomock.Any(), userID, gomock.Any()).
		Return(models.PaymentMethod{}, &repository.ValidationError{Field: "routingNumber", Reason: "must be exactly 9 digits"})

	body, _ := json.Marshal(models.AddBankRequest{
		RoutingNumber: "12345",
		AccountNumber: "1234567890",
		HolderFirst:   "Ada",
		HolderLast:    "Lovelace",
	})
	httpReq, _ := http.NewRequest("POST", "/api/v1/payment-methods/bank", bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "routingNumber")
}

func TestHandleDeletePaymentMethod_BadID(t *testing.T) {
	r, _ := newTestRouter(t)

	httpReq, _ := http.NewRequest("DELETE", "/api/v1/payment-methods/not-a-uuid", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, uuid.New(), false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid method_id")
}

func TestHandleActivity_Success(t *testing.T) {
	r, mockService := newTestRouter(t)

	userID := uuid.New()
	mockService.EXPECT().
		GetActivity(gomock.Any(), userID).
		Return(models.Activity{
			Paid:     []models.Transaction{{ID: 1, Type: models.TransactionSend, IsComplete: true}},
			Received: []models.Transaction{},
		}, nil)

	httpReq, _ := http.NewRequest("GET", "/api/v1/activity", nil)
	httpReq.Header.Set("Authorization", bearerToken(t, userID, false))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paid")
	assert.Contains(t, w.Body.String(), "received")
}
