package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"salonbook/internal/store"
)

// Service resolves what a stylist charges for a service: the custom price
// on the stylist-service assignment when one is set, the service base price
// otherwise. Prices are integer minor units end to end.
type Service struct {
	assignments store.StylistServiceRepository
	services    store.ServiceRepository
}

func NewService(assignments store.StylistServiceRepository, services store.ServiceRepository) *Service {
	return &Service{assignments: assignments, services: services}
}

func (s *Service) PriceFor(ctx context.Context, stylistID, serviceID uuid.UUID) (int64, error) {
	assignment, err := s.assignments.FindAssignment(ctx, stylistID, serviceID)
	switch {
	case err == nil:
		if assignment.PriceCents != nil {
			return *assignment.PriceCents, nil
		}
	case !errors.Is(err, store.ErrNotFound):
		return 0, err
	}

	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return 0, err
	}
	return svc.PriceCents, nil
}

// FormatPrice renders integer cents as a two-decimal amount. Cents are
// exact at this precision, so no rounding mode is involved.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
