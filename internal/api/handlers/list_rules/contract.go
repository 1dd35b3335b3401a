package list_rules

import (
	"context"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/service/rules/models"
)

type RuleService interface {
	List(ctx context.Context, req *models.ListRulesRequest) ([]*domain.AvailabilityRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
