package store

import (
	"context"

	"github.com/google/uuid"

	"salonbook/internal/domain"
)

// Reference lookups. The modification core only needs existence plus the
// few scalar attributes on the returned rows.

type StatusRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.AppointmentStatus, error)
}

type StylistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Stylist, error)
}

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

type StylistServiceRepository interface {
	FindAssignment(ctx context.Context, stylistID, serviceID uuid.UUID) (domain.StylistService, error)
}
