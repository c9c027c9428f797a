package pay_payment

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

type PaymentService interface {
	MarkPaid(ctx context.Context, req *models.MarkPaidRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
