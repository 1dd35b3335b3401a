// Package memstore хранилище в памяти для тестов сервисов и сценариев
// Повторяет контракты PostgreSQL-репозиториев: те же сигнатуры, те же ошибки,
// транзакции с откатом и транзакционные блокировки номеров
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

type cellKey struct {
	roomID int64
	date   time.Time
}

// Store общее состояние всех репозиториев
type Store struct {
	mu sync.Mutex

	cells        map[cellKey]*domain.AvailabilityCell
	reservations map[int64]*domain.Reservation
	payments     map[int64]*domain.ReservationPayment
	rules        map[int64]*domain.AvailabilityRule
	blocks       map[int64]*domain.RoomBlockPeriod
	rooms        map[int64]*domain.Room
	customers    map[int64]*domain.Customer

	roomLocks map[int64]*sync.Mutex
	failures  map[string]error
	nextID    int64
	now       func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		cells:        make(map[cellKey]*domain.AvailabilityCell),
		reservations: make(map[int64]*domain.Reservation),
		payments:     make(map[int64]*domain.ReservationPayment),
		rules:        make(map[int64]*domain.AvailabilityRule),
		blocks:       make(map[int64]*domain.RoomBlockPeriod),
		rooms:        make(map[int64]*domain.Room),
		customers:    make(map[int64]*domain.Customer),
		roomLocks:    make(map[int64]*sync.Mutex),
		failures:     make(map[string]error),
		now:          time.Now,
	}
}

// FailOn заставляет операцию (например "Reservations.Create") вернуть err
// nil снимает ошибку
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddRoom регистрирует номер в каталоге
func (s *Store) AddRoom(room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := room
	s.rooms[room.ID] = &r
}

// AddCustomer регистрирует клиента
func (s *Store) AddCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cc := c
	s.customers[c.ID] = &cc
}

// Cell текущее состояние ячейки или nil
func (s *Store) Cell(roomID int64, date time.Time) *domain.AvailabilityCell {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[cellKey{roomID, date}]
	if !ok {
		return nil
	}
	return copyCell(c)
}

// PutCell записывает ячейку напрямую, минуя пересчёт
func (s *Store) PutCell(c domain.AvailabilityCell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[cellKey{c.RoomID, c.Date}] = copyCell(&c)
}

// ClaimedBy даты номера, занятые бронированием, по возрастанию
func (s *Store) ClaimedBy(roomID, reservationID int64) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	dates := make([]time.Time, 0)
	for k, c := range s.cells {
		if k.roomID == roomID && c.ReservationID != nil && *c.ReservationID == reservationID {
			dates = append(dates, k.date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Reservation текущее состояние бронирования или nil
func (s *Store) Reservation(id int64) *domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// ReservationCount количество бронирований номера в указанных статусах
func (s *Store) ReservationCount(roomID int64, statuses ...domain.ReservationStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.RoomID == roomID && hasStatus(statuses, r.Status) {
			n++
		}
	}
	return n
}

// record регистрирует откат изменения в транзакции контекста, вызывать под s.mu
func (s *Store) record(ctx context.Context, undo func()) {
	if tx := txFrom(ctx); tx != nil {
		tx.undo = append(tx.undo, undo)
	}
}

func hasStatus(statuses []domain.ReservationStatus, st domain.ReservationStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

func copyCell(c *domain.AvailabilityCell) *domain.AvailabilityCell {
	cp := *c
	if c.BlockReason != nil {
		v := *c.BlockReason
		cp.BlockReason = &v
	}
	if c.CustomPrice != nil {
		v := *c.CustomPrice
		cp.CustomPrice = &v
	}
	if c.MinNights != nil {
		v := *c.MinNights
		cp.MinNights = &v
	}
	if c.ReservationID != nil {
		v := *c.ReservationID
		cp.ReservationID = &v
	}
	if c.ConflictReason != nil {
		v := *c.ConflictReason
		cp.ConflictReason = &v
	}
	return &cp
}
