package berth

import "errors"

var (
	// ErrBerthNotFound возвращается, когда причал не найден
	ErrBerthNotFound = errors.New("berth.repository: berth not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("berth.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("berth.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("berth.repository: failed to scan row")
)
