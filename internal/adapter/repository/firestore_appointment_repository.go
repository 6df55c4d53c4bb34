package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"carelink/internal/domain/entity"
	"carelink/internal/domain/repository"
	"carelink/pkg/errors"
)

// firestoreAppointmentRepository reads appointment records written by the
// scheduling subsystem. This service never mutates them.
type firestoreAppointmentRepository struct {
	client *firestore.Client
}

func NewFirestoreAppointmentRepository(client *firestore.Client) repository.AppointmentRepository {
	return &firestoreAppointmentRepository{
		client: client,
	}
}

func (r *firestoreAppointmentRepository) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	doc, err := r.client.Collection("appointments").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Appointment", err)
		}
		return nil, errors.Internal("Failed to get appointment", err)
	}

	var appointment entity.Appointment
	if err := doc.DataTo(&appointment); err != nil {
		return nil, errors.Internal("Failed to parse appointment data", err)
	}
	appointment.ID = doc.Ref.ID

	return &appointment, nil
}
