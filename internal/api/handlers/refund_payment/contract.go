package refund_payment

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

type PaymentService interface {
	MarkRefunded(ctx context.Context, req *models.MarkRefundedRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
