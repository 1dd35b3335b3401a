package calendar

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Результаты пересчёта для метрик
const (
	resultOK       = "ok"
	resultConflict = "conflict"
	resultError    = "error"
)

// Day состояние даты для публичного чтения доступности
type Day struct {
	Date      time.Time       `json:"date"`
	Available bool            `json:"available"`
	Price     decimal.Decimal `json:"price"`
	MinNights *int            `json:"min_nights,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Conflict занятая дата, которую новое правило или блокировка закрыли бы
type Conflict struct {
	Date          time.Time
	ReservationID int64
	Reason        string
}

// CacheVersion версия кэша номера, увеличивается при каждой инвалидации
type CacheVersion int64

// RecomputeResult итог пересчёта календаря номера
type RecomputeResult struct {
	RoomID    int64
	Range     types.DateRange
	Updated   int // записанные незанятые ячейки
	Conflicts []Conflict
}

type noopMetrics struct{}

func (noopMetrics) IncRecompute(string, int) {}
func (noopMetrics) IncCacheLookup(bool)      {}
