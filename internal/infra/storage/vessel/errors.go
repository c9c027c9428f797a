package vessel

import "errors"

var (
	// ErrVesselNotFound возвращается, когда судно не найдено
	ErrVesselNotFound = errors.New("vessel.repository: vessel not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("vessel.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("vessel.repository: failed to scan row")
)
