package pay_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidPaymentID   = "некорректный ID платежа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPaymentNotFound    = "платеж не найден"
	msgAccessDenied       = "нет доступа к платежу"
	msgAlreadyPaid        = "платеж уже оплачен другой транзакцией"
	msgInvalidTransition  = "платеж нельзя оплатить в текущем статусе"
	msgStateConflict      = "платеж был изменён параллельным запросом, повторите попытку"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/{paymentId}/pay
// Повтор с тем же transactionId возвращает уже оплаченный платеж
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	paymentID, err := handlers.PathInt64(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /payments/{id}/pay - %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	var req MarkPaidRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/{id}/pay - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /payments/{id}/pay - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	payment, err := h.service.MarkPaid(r.Context(), &models.MarkPaidRequest{
		UserID:        userID,
		PaymentID:     paymentID,
		TransactionID: req.TransactionID,
		PaidDate:      req.PaidDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		case errors.Is(err, payments.ErrPaymentNotFound), errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /payments/{id}/pay - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgPaymentNotFound)
		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /payments/{id}/pay - Access denied: payment_id=%d, user_id=%d", paymentID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, payments.ErrAlreadyPaid):
			h.logger.Warn("POST /payments/{id}/pay - Already paid: payment_id=%d, transaction_id=%s", paymentID, req.TransactionID)
			handlers.RespondConflict(w, msgAlreadyPaid)
		case errors.Is(err, payments.ErrInvalidTransition):
			h.logger.Warn("POST /payments/{id}/pay - Invalid transition: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, payments.ErrPaymentStateConflict):
			h.logger.Warn("POST /payments/{id}/pay - Concurrent update: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgStateConflict)
		default:
			h.logger.Error("POST /payments/{id}/pay - Failed to mark paid: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/pay - Payment paid: payment_id=%d, transaction_id=%s", paymentID, req.TransactionID)
	handlers.RespondJSON(w, http.StatusOK, payment)
}
