package models

import (
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Request модели

// CreateBlockRequest запрос на создание периода блокировки
type CreateBlockRequest struct {
	CompanyID         int64
	RoomID            *int64 // nil = все номера компании
	StartDate         time.Time
	EndDate           time.Time // включительно
	Reason            string
	IsRecurring       bool
	RecurrencePattern *string
	CreatedBy         *int64
}

// ListBlocksRequest запрос на список блокировок компании
type ListBlocksRequest struct {
	CompanyID       int64
	RoomID          *int64
	IncludeInactive bool
}

// Response модели

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID                int64     `json:"id"`
	CompanyID         int64     `json:"companyId"`
	RoomID            *int64    `json:"roomId,omitempty"`
	StartDate         string    `json:"startDate"`
	EndDate           string    `json:"endDate"`
	Reason            string    `json:"reason"`
	IsRecurring       bool      `json:"isRecurring"`
	RecurrencePattern *string   `json:"recurrencePattern,omitempty"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Методы конвертации

// ToDomainBlock конвертирует запрос в domain модель
func (r *CreateBlockRequest) ToDomainBlock() *domain.RoomBlockPeriod {
	block := &domain.RoomBlockPeriod{
		CompanyID:   r.CompanyID,
		RoomID:      r.RoomID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Reason:      r.Reason,
		IsRecurring: r.IsRecurring,
		IsActive:    true,
		CreatedBy:   r.CreatedBy,
	}
	if r.RecurrencePattern != nil {
		p := domain.RecurrencePattern(*r.RecurrencePattern)
		block.RecurrencePattern = &p
	}
	return block
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.RoomBlockPeriod) *BlockResponse {
	if b == nil {
		return nil
	}
	resp := &BlockResponse{
		ID:          b.ID,
		CompanyID:   b.CompanyID,
		RoomID:      b.RoomID,
		StartDate:   b.StartDate.Format(domain.DateFormat),
		EndDate:     b.EndDate.Format(domain.DateFormat),
		Reason:      b.Reason,
		IsRecurring: b.IsRecurring,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
	}
	if b.RecurrencePattern != nil {
		p := string(*b.RecurrencePattern)
		resp.RecurrencePattern = &p
	}
	return resp
}

// FromDomainBlockList конвертирует список блокировок в DTO
func FromDomainBlockList(blocks []*domain.RoomBlockPeriod) []*BlockResponse {
	result := make([]*BlockResponse, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, FromDomainBlock(b))
	}
	return result
}
