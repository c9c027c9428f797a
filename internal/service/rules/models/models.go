package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// CreateRuleRequest запрос на создание правила бронирования
type CreateRuleRequest struct {
	UserID      int64
	ClubID      int64
	TariffID    *int64 // NULL = правило для всех тарифов клуба
	RuleType    string
	Parameters  json.RawMessage
	Description *string
}

// ListRulesRequest запрос на получение правил клуба
type ListRulesRequest struct {
	UserID   int64
	ClubID   int64
	TariffID *int64 // если указан - только общие правила и правила этого тарифа
}

// RuleResponse правило бронирования
type RuleResponse struct {
	ID          int64           `json:"id"`
	ClubID      int64           `json:"clubId"`
	TariffID    *int64          `json:"tariffId,omitempty"`
	RuleType    string          `json:"ruleType"`
	Parameters  json.RawMessage `json:"parameters"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RuleListResponse список правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.BookingRule) *RuleResponse {
	if r == nil {
		return nil
	}

	params, err := domain.EncodeRuleParams(r.Params)
	if err != nil {
		params = []byte("{}")
	}

	return &RuleResponse{
		ID:          r.ID,
		ClubID:      r.ClubID,
		TariffID:    r.TariffID,
		RuleType:    string(r.Type),
		Parameters:  params,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []domain.BookingRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}
	for i := range rules {
		resp.Rules = append(resp.Rules, *FromDomainRule(&rules[i]))
	}
	return resp
}
