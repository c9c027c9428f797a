package get_price_quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

type stubClubs map[int64]*domain.Club

func (s stubClubs) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, clubRepo.ErrClubNotFound
}

type stubBerths map[int64]*domain.Berth

func (s stubBerths) GetByID(ctx context.Context, id int64) (*domain.Berth, error) {
	if b, ok := s[id]; ok {
		return b, nil
	}
	return nil, berthRepo.ErrBerthNotFound
}

type stubTariffs map[int64]*domain.Tariff

func (s stubTariffs) GetByID(ctx context.Context, id int64) (*domain.Tariff, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return nil, tariffRepo.ErrTariffNotFound
}

type stubRules []domain.BookingRule

func (s stubRules) GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error) {
	return s, nil
}

func newUseCase(rules stubRules) *UseCase {
	clubs := stubClubs{1: {
		ID:           1,
		RentalMonths: domain.Months{5, 6, 7, 8, 9},
		Season:       2025,
		BasePrice:    decimal.NewFromInt(90000),
	}}
	berths := stubBerths{
		5: {ID: 5, ClubID: 1, IsAvailable: true, TariffIDs: []int64{10, 12}},
		6: {ID: 6, ClubID: 1, IsAvailable: true},
	}
	tariffs := stubTariffs{
		10: {ID: 10, ClubID: 1, Type: domain.TariffMonthlyPayment, Amount: decimal.NewFromInt(10000), Months: domain.Months{4, 5, 6, 7, 8, 9, 10}},
		12: {ID: 12, ClubID: 1, Type: domain.TariffMonthlyPayment, Amount: decimal.NewFromInt(10000), Months: domain.Months{1, 2}},
	}
	return NewUseCase(clubs, berths, tariffs, rules, logger.NewNop())
}

func TestGetPriceQuoteRequiredMonths(t *testing.T) {
	uc := newUseCase(stubRules{
		{ID: 2, ClubID: 1, TariffID: ptr.Ptr(int64(10)), Type: domain.RuleRequirePaymentMonths,
			Params: domain.RequirePaymentMonthsParams{Months: domain.Months{6, 7, 8}}},
		{ID: 1, ClubID: 1, Type: domain.RuleRequireDeposit,
			Params: domain.RequireDepositParams{DepositAmount: decimal.NewFromInt(5000)}},
	})

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, BerthID: 5, TariffID: ptr.Ptr(int64(10))})
	require.NoError(t, err)

	quote := resp.Quote
	assert.Equal(t, domain.Months{6, 7, 8}, quote.ChargeableMonths())
	assert.True(t, quote.BasePrice.Equal(decimal.NewFromInt(30000)))
	assert.True(t, quote.TotalPrice.Equal(decimal.NewFromInt(35000)))
	assert.Equal(t, []int64{1, 2}, quote.AppliedRuleIDs)
	assert.Equal(t, 92, resp.DurationDays)
}

func TestGetPriceQuoteNotPriceable(t *testing.T) {
	uc := newUseCase(nil)

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, BerthID: 5, TariffID: ptr.Ptr(int64(12))})
	require.NoError(t, err)
	assert.False(t, resp.Quote.Priceable)
	assert.Empty(t, resp.Quote.MonthlyBreakdown)
}

func TestGetPriceQuoteBerthWithoutTariffs(t *testing.T) {
	uc := newUseCase(nil)

	resp, err := uc.Execute(context.Background(), &Request{ClubID: 1, BerthID: 6})
	require.NoError(t, err)
	assert.True(t, resp.Quote.TotalPrice.Equal(decimal.NewFromInt(90000)))
}

func TestGetPriceQuoteErrors(t *testing.T) {
	uc := newUseCase(nil)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing tariff", &Request{ClubID: 1, BerthID: 5}, domain.ErrMissingTariffSelection},
		{"tariff not linked", &Request{ClubID: 1, BerthID: 6, TariffID: ptr.Ptr(int64(10))}, ErrTariffNotLinked},
		{"unknown club", &Request{ClubID: 2, BerthID: 5}, ErrClubNotFound},
		{"unknown berth", &Request{ClubID: 1, BerthID: 9}, ErrBerthNotFound},
		{"bad tariff id", &Request{ClubID: 1, BerthID: 5, TariffID: ptr.Ptr(int64(0))}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
