package pay_payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
)

type fakeService struct {
	got *models.MarkPaidRequest
	err error
}

func (f *fakeService) MarkPaid(ctx context.Context, req *models.MarkPaidRequest) (*models.PaymentResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentResponse{ID: req.PaymentID, Status: "paid", TransactionID: &req.TransactionID}, nil
}

func serve(svc *fakeService, paymentID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+paymentID+"/pay", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"paymentId": paymentID})
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandlePaid(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "15", `{"transactionId":"tx-1","paidDate":"2025-07-01T10:00:00Z"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(15), svc.got.PaymentID)
	assert.Equal(t, int64(7), svc.got.UserID)
	assert.Equal(t, "tx-1", svc.got.TransactionID)
	require.NotNil(t, svc.got.PaidDate)
	assert.Equal(t, 2025, svc.got.PaidDate.Year())
}

func TestHandleRejects(t *testing.T) {
	tests := []struct {
		name      string
		paymentID string
		body      string
		err       error
		want      int
	}{
		{"bad id", "abc", `{"transactionId":"tx-1"}`, nil, http.StatusBadRequest},
		{"missing transaction", "15", `{}`, nil, http.StatusBadRequest},
		{"not found", "15", `{"transactionId":"tx-1"}`, payments.ErrPaymentNotFound, http.StatusNotFound},
		{"denied", "15", `{"transactionId":"tx-1"}`, payments.ErrAccessDenied, http.StatusForbidden},
		{"paid by another transaction", "15", `{"transactionId":"tx-1"}`, payments.ErrAlreadyPaid, http.StatusConflict},
		{"refunded", "15", `{"transactionId":"tx-1"}`, payments.ErrInvalidTransition, http.StatusConflict},
		{"concurrent update", "15", `{"transactionId":"tx-1"}`, payments.ErrPaymentStateConflict, http.StatusConflict},
		{"internal", "15", `{"transactionId":"tx-1"}`, payments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.paymentID, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
