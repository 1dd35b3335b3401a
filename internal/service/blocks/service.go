package blocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/infra/storage/block"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/blocks/models"
	"github.com/m04kA/SMC-RoomReservationService/internal/worker/recompute"
	"github.com/m04kA/SMC-RoomReservationService/pkg/types"
)

// Service периоды блокировки номеров владельцем
type Service struct {
	blockRepo BlockRepository
	rooms     RoomReader
	horizon   Horizon
	queue     RecomputeQueue
	logger    Logger
}

// NewService создает новый экземпляр сервиса блокировок
func NewService(blockRepo BlockRepository, rooms RoomReader, horizon Horizon, queue RecomputeQueue, logger Logger) *Service {
	return &Service{
		blockRepo: blockRepo,
		rooms:     rooms,
		horizon:   horizon,
		queue:     queue,
		logger:    logger,
	}
}

// Create сохраняет период блокировки и ставит пересчёт затронутых номеров
func (s *Service) Create(ctx context.Context, req *models.CreateBlockRequest) (*domain.RoomBlockPeriod, error) {
	s.logger.Info("Create: company id=%d block %s..%s", req.CompanyID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	candidate := req.ToDomainBlock()
	candidate.StartDate = types.Date(candidate.StartDate)
	candidate.EndDate = types.Date(candidate.EndDate)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	if candidate.RoomID != nil {
		if err := s.checkRoom(ctx, req.CompanyID, *candidate.RoomID); err != nil {
			return nil, err
		}
	}

	saved, err := s.blockRepo.Create(ctx, candidate)
	if err != nil {
		s.logger.Error("Create: failed to save block for company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.schedule(ctx, saved, "block created")

	s.logger.Info("Create: block id=%d saved", saved.ID)
	return saved, nil
}

// List блокировки компании, опционально одного номера
func (s *Service) List(ctx context.Context, req *models.ListBlocksRequest) ([]*domain.RoomBlockPeriod, error) {
	blocks, err := s.blockRepo.ListByCompany(ctx, req.CompanyID, req.RoomID, req.IncludeInactive)
	if err != nil {
		s.logger.Error("List: repository error for company id=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return blocks, nil
}

// Deactivate снимает блокировку и ставит пересчёт её периода
func (s *Service) Deactivate(ctx context.Context, companyID, id int64) error {
	existing, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return domain.NewNotFoundError("block", id)
		}
		return fmt.Errorf("%w: Deactivate - get block: %w", ErrInternal, err)
	}
	if existing.CompanyID != companyID {
		return domain.NewNotFoundError("block", id)
	}

	if err := s.blockRepo.Deactivate(ctx, companyID, id); err != nil {
		if errors.Is(err, block.ErrBlockNotFound) {
			return domain.NewNotFoundError("block", id)
		}
		return fmt.Errorf("%w: Deactivate - repository error: %w", ErrInternal, err)
	}

	s.schedule(ctx, existing, "block deactivated")

	s.logger.Info("Deactivate: block id=%d deactivated", id)
	return nil
}

func (s *Service) checkRoom(ctx context.Context, companyID, roomID int64) error {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrRoomNotFound) {
			return domain.NewNotFoundError("room", roomID)
		}
		return fmt.Errorf("%w: checkRoom - catalog error: %v", ErrInternal, err)
	}
	if room.CompanyID != companyID {
		return domain.NewNotFoundError("room", roomID)
	}
	return nil
}

// schedule ставит пересчёт периода блокировки в пределах горизонта
// Все вхождения повторяющейся блокировки лежат внутри Span
func (s *Service) schedule(ctx context.Context, b *domain.RoomBlockPeriod, reason string) {
	dates, ok := b.Span().Intersect(s.horizon.Horizon())
	if !ok {
		return
	}

	roomIDs := make([]int64, 0, 1)
	if b.RoomID != nil {
		roomIDs = append(roomIDs, *b.RoomID)
	} else {
		rooms, err := s.rooms.ListCompanyRooms(ctx, b.CompanyID)
		if err != nil {
			s.logger.Warn("schedule: failed to list rooms of company id=%d: %v", b.CompanyID, err)
			return
		}
		for _, room := range rooms {
			roomIDs = append(roomIDs, room.ID)
		}
	}

	for _, roomID := range roomIDs {
		s.queue.Enqueue(recompute.Job{RoomID: roomID, Range: dates, Reason: reason})
	}
}
