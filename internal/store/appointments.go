package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/internal/domain"
)

// AppointmentRepository is the persistence collaborator for the update
// orchestrator. Update must guarantee conflict safety for the written
// window (advisory locking around the read-check-write sequence for the
// stylist); a conflict surfaced at write time is reported as ErrConflict
// and nothing is persisted.
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)

	// FindConflicting returns non-terminal appointments for the stylist
	// whose [start, start+duration) window intersects
	// [windowStart, windowEnd), excluding excludeID.
	FindConflicting(ctx context.Context, stylistID uuid.UUID, windowStart, windowEnd time.Time, excludeID uuid.UUID) ([]domain.Appointment, error)
}
