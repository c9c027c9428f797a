package refund_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

const (
	msgUnauthorized      = "пользователь не авторизован"
	msgInvalidPaymentID  = "некорректный ID платежа"
	msgPaymentNotFound   = "платеж не найден"
	msgAccessDenied      = "возврат доступен только владельцу клуба или администратору"
	msgInvalidTransition = "платеж нельзя вернуть в текущем статусе"
	msgStateConflict     = "платеж был изменён параллельным запросом, повторите попытку"
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

// Handle POST /api/v1/payments/{paymentId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	paymentID, err := handlers.PathInt64(r, "paymentId")
	if err != nil {
		h.logger.Warn("POST /payments/{id}/refund - %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	payment, err := h.service.MarkRefunded(r.Context(), &models.MarkRefundedRequest{
		UserID:    userID,
		PaymentID: paymentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound), errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /payments/{id}/refund - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgPaymentNotFound)
		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /payments/{id}/refund - Access denied: payment_id=%d, user_id=%d", paymentID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, payments.ErrInvalidTransition):
			h.logger.Warn("POST /payments/{id}/refund - Invalid transition: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, payments.ErrPaymentStateConflict):
			h.logger.Warn("POST /payments/{id}/refund - Concurrent update: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgStateConflict)
		default:
			h.logger.Error("POST /payments/{id}/refund - Failed to refund: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/refund - Payment refunded: payment_id=%d, user_id=%d", paymentID, userID)
	handlers.RespondJSON(w, http.StatusOK, payment)
}
