package list_rules

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/service/rules/models"
)

type RuleService interface {
	List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
