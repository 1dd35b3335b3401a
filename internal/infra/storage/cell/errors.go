package cell

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("cell.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("cell.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("cell.repository: failed to scan row")

	// ErrLockRoom возвращается, если не удалось взять блокировку номера
	ErrLockRoom = errors.New("cell.repository: failed to lock room")
)
