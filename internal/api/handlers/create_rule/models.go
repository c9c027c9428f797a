package create_rule

import (
	"encoding/json"

	"github.com/m04kA/SMC-MarinaService/internal/service/rules/models"
)

// CreateRuleRequest HTTP запрос на создание правила
type CreateRuleRequest struct {
	TariffID    *int64          `json:"tariffId,omitempty" validate:"omitempty,gt=0"`
	RuleType    string          `json:"ruleType" validate:"required,oneof=require_deposit require_payment_months min_booking_period max_booking_period custom"`
	Parameters  json.RawMessage `json:"parameters" validate:"required"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateRuleRequest) ToServiceRequest(userID, clubID int64) *models.CreateRuleRequest {
	return &models.CreateRuleRequest{
		UserID:      userID,
		ClubID:      clubID,
		TariffID:    r.TariffID,
		RuleType:    r.RuleType,
		Parameters:  r.Parameters,
		Description: r.Description,
	}
}
