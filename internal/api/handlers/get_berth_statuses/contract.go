package get_berth_statuses

import (
	"context"

	getBerthStatuses "github.com/m04kA/SMC-MarinaService/internal/usecase/get_berth_statuses"
)

type GetBerthStatusesUseCase interface {
	Execute(ctx context.Context, req *getBerthStatuses.Request) (*getBerthStatuses.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
