package repository

import (
	"context"

	"carelink/internal/domain/entity"
)

// AppointmentRepository is a read-only view into the scheduling subsystem's
// records.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
}
