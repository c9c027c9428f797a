package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// MonthlyLineItemResponse строка помесячной разбивки
type MonthlyLineItemResponse struct {
	Month  int             `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// QuoteResponse котировка бронирования
type QuoteResponse struct {
	BasePrice        decimal.Decimal           `json:"basePrice"`
	DepositAmount    decimal.Decimal           `json:"depositAmount"`
	TotalPrice       decimal.Decimal           `json:"totalPrice"`
	MonthlyBreakdown []MonthlyLineItemResponse `json:"monthlyBreakdown"`
	AppliedRuleIDs   []int64                   `json:"appliedRuleIds"`
	Priceable        bool                      `json:"priceable"`
}

// FromDomainQuote конвертирует котировку в DTO
func FromDomainQuote(q *domain.PriceQuote) *QuoteResponse {
	if q == nil {
		return nil
	}

	resp := &QuoteResponse{
		BasePrice:        q.BasePrice,
		DepositAmount:    q.DepositAmount,
		TotalPrice:       q.TotalPrice,
		MonthlyBreakdown: make([]MonthlyLineItemResponse, 0, len(q.MonthlyBreakdown)),
		AppliedRuleIDs:   q.AppliedRuleIDs,
		Priceable:        q.Priceable,
	}
	if resp.AppliedRuleIDs == nil {
		resp.AppliedRuleIDs = []int64{}
	}
	for _, item := range q.MonthlyBreakdown {
		resp.MonthlyBreakdown = append(resp.MonthlyBreakdown, MonthlyLineItemResponse{
			Month:  item.Month,
			Label:  item.Label,
			Amount: item.Amount,
		})
	}
	return resp
}
