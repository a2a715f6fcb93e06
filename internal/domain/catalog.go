package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Catalog entities are referenced by the appointment through ids only; the
// modification core needs them for existence checks and pricing, nothing
// more.

type Stylist struct {
	bun.BaseModel `bun:"table:stylists,alias:sy"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Name      string    `bun:"name,notnull"`
	Active    bool      `bun:"active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Service struct {
	bun.BaseModel `bun:"table:services,alias:sv"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Name            string    `bun:"name,notnull"`
	Description     string    `bun:"description"`
	DurationMinutes int       `bun:"duration_minutes,notnull"`
	PriceCents      int64     `bun:"price_cents,notnull"`
	Active          bool      `bun:"active,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

// StylistService assigns a service to a stylist, optionally with a price
// that overrides the service base price. Prices are integer minor units.
type StylistService struct {
	bun.BaseModel `bun:"table:stylist_services,alias:ss"`

	StylistID  uuid.UUID `bun:"stylist_id,pk,type:uuid"`
	ServiceID  uuid.UUID `bun:"service_id,pk,type:uuid"`
	PriceCents *int64    `bun:"price_cents"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

func (s *Stylist) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampCatalogRow(query, &s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (s *Service) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampCatalogRow(query, &s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func stampCatalogRow(query bun.Query, id *uuid.UUID, createdAt, updatedAt *time.Time) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v7, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v7
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
