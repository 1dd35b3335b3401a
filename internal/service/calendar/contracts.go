package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// CellRepository интерфейс репозитория ячеек календаря
type CellRepository interface {
	LockRoom(ctx context.Context, roomID int64) error
	ListRange(ctx context.Context, roomID int64, dates types.DateRange) ([]*domain.AvailabilityCell, error)
	ListConflicts(ctx context.Context, roomID int64) ([]*domain.AvailabilityCell, error)
	UpsertUnclaimed(ctx context.Context, cells []*domain.AvailabilityCell) (int64, error)
	Claim(ctx context.Context, cells []*domain.AvailabilityCell, reservationID int64) (int64, error)
	Release(ctx context.Context, roomID, reservationID int64) ([]time.Time, error)
	SetConflictReason(ctx context.Context, roomID int64, date time.Time, reason *string) error
}

// RuleRepository интерфейс репозитория правил
type RuleRepository interface {
	ListActiveForRoom(ctx context.Context, companyID, roomID int64) ([]*domain.AvailabilityRule, error)
}

// BlockRepository интерфейс репозитория блокировок
type BlockRepository interface {
	ListActiveForRoom(ctx context.Context, companyID, roomID int64, dates types.DateRange) ([]*domain.RoomBlockPeriod, error)
}

// RoomReader интерфейс чтения номеров из каталога
type RoomReader interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
}

// Cache кэш ответов GetAvailability
// Get возвращает версию номера, под которой Set сохраняет ответ, прочитанный после Get
// Если между ними прошла инвалидация, запись со старой версией уже никто не прочитает
type Cache interface {
	Get(ctx context.Context, roomID int64, dates types.DateRange) ([]Day, CacheVersion, bool, error)
	Set(ctx context.Context, roomID int64, version CacheVersion, dates types.DateRange, days []Day) error
	Invalidate(ctx context.Context, roomID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики пересчёта и кэша
type Metrics interface {
	IncRecompute(result string, conflicts int)
	IncCacheLookup(hit bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
