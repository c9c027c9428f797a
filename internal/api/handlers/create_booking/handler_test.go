package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	createBooking "github.com/m04kA/SMC-MarinaService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
)

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{
		Booking: &domain.Booking{ID: 42, ClubID: req.ClubID, BerthID: req.BerthID, Status: domain.StatusPending,
			TotalPrice: decimal.NewFromInt(35000)},
		Quote: &domain.PriceQuote{TotalPrice: decimal.NewFromInt(35000), Priceable: true},
	}, nil
}

func serve(t *testing.T, uc *fakeUseCase, userID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandleCreated(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(t, uc, 7, `{"clubId":1,"berthId":5,"vesselId":3,"tariffId":10,"startDate":"2025-06-01","endDate":"2025-06-20"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, int64(10), *uc.got.TariffID)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *uc.got.StartDate)

	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.Booking.ID)
	assert.Equal(t, "pending", resp.Booking.Status)
	assert.True(t, resp.Quote.TotalPrice.Equal(decimal.NewFromInt(35000)))
	assert.NotNil(t, resp.Payments)
}

func TestHandleRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		body   string
		want   int
	}{
		{"no user", 0, `{"clubId":1,"berthId":5,"vesselId":3}`, http.StatusUnauthorized},
		{"malformed json", 7, `{"clubId":`, http.StatusBadRequest},
		{"unknown field", 7, `{"clubId":1,"berthId":5,"vesselId":3,"price":1}`, http.StatusBadRequest},
		{"missing vessel", 7, `{"clubId":1,"berthId":5}`, http.StatusBadRequest},
		{"bad date", 7, `{"clubId":1,"berthId":5,"vesselId":3,"startDate":"01.06.2025","endDate":"2025-06-20"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(t, uc, tt.userID, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandleMapsErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: live booking id=3", domain.ErrBerthAlreadyBooked), http.StatusConflict},
		{createBooking.ErrBerthUnavailable, http.StatusConflict},
		{createBooking.ErrInvalidInput, http.StatusBadRequest},
		{createBooking.ErrAccessDenied, http.StatusForbidden},
		{createBooking.ErrClubNotFound, http.StatusNotFound},
		{createBooking.ErrBerthNotFound, http.StatusNotFound},
		{createBooking.ErrVesselNotFound, http.StatusNotFound},
		{createBooking.ErrTariffNotFound, http.StatusNotFound},
		{createBooking.ErrTariffNotLinked, http.StatusUnprocessableEntity},
		{domain.ErrMissingTariffSelection, http.StatusUnprocessableEntity},
		{domain.ErrPriceableOnlyWhenMonthsNonEmpty, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: 10 days < 30", domain.ErrBookingPeriodOutOfRange), http.StatusUnprocessableEntity},
		{&domain.RuleConfigurationError{RuleID: 4, RuleType: domain.RuleCustom, Reason: "bad json"}, http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, 7, `{"clubId":1,"berthId":5,"vesselId":3}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
