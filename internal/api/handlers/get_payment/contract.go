package get_payment

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

type PaymentService interface {
	GetByID(ctx context.Context, paymentID, userID int64) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
