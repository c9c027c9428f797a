package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	getPriceQuote "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

func TestRenderQuote(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	renderQuote(&buf, &getPriceQuote.Response{
		ClubID:       1,
		BerthID:      5,
		TariffID:     ptr.Ptr(int64(10)),
		DurationDays: 61,
		Quote: &domain.PriceQuote{
			BasePrice:     decimal.NewFromInt(20000),
			DepositAmount: decimal.NewFromInt(5000),
			TotalPrice:    decimal.NewFromInt(25000),
			MonthlyBreakdown: []domain.MonthlyLineItem{
				{Month: 6, Label: "Июнь", Amount: decimal.NewFromInt(10000)},
				{Month: 7, Label: "Июль", Amount: decimal.NewFromInt(10000)},
			},
			AppliedRuleIDs: []int64{3},
			Priceable:      true,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "club 1, berth 5, tariff 10")
	assert.Contains(t, out, "10000.00")
	assert.Contains(t, out, "Deposit")
	assert.Contains(t, out, "25000.00")
	assert.Contains(t, out, "61 days")
	assert.Contains(t, out, "[3]")
}

func TestRenderQuoteNotPriceable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	renderQuote(&buf, &getPriceQuote.Response{
		ClubID:  1,
		BerthID: 5,
		Quote:   &domain.PriceQuote{},
	})

	out := buf.String()
	assert.Contains(t, out, "base price")
	assert.Contains(t, out, "NOT PRICEABLE")
	assert.NotContains(t, out, "Total")
}
