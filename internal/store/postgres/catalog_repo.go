package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

type StatusRepo struct {
	db *bun.DB
}

func NewStatusRepo(db *bun.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

func (r *StatusRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.AppointmentStatus, error) {
	var st domain.AppointmentStatus
	err := r.db.NewSelect().Model(&st).Where("st.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return domain.AppointmentStatus{}, mapNoRows(err)
	}
	return st, nil
}

type StylistRepo struct {
	db *bun.DB
}

func NewStylistRepo(db *bun.DB) *StylistRepo {
	return &StylistRepo{db: db}
}

func (r *StylistRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Stylist, error) {
	var sty domain.Stylist
	err := r.db.NewSelect().Model(&sty).Where("sy.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return domain.Stylist{}, mapNoRows(err)
	}
	return sty, nil
}

type ServiceRepo struct {
	db *bun.DB
}

func NewServiceRepo(db *bun.DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func (r *ServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var svc domain.Service
	err := r.db.NewSelect().Model(&svc).Where("sv.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return domain.Service{}, mapNoRows(err)
	}
	return svc, nil
}

type StylistServiceRepo struct {
	db *bun.DB
}

func NewStylistServiceRepo(db *bun.DB) *StylistServiceRepo {
	return &StylistServiceRepo{db: db}
}

func (r *StylistServiceRepo) FindAssignment(ctx context.Context, stylistID, serviceID uuid.UUID) (domain.StylistService, error) {
	var ss domain.StylistService
	err := r.db.NewSelect().
		Model(&ss).
		Where("ss.stylist_id = ?", stylistID).
		Where("ss.service_id = ?", serviceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.StylistService{}, mapNoRows(err)
	}
	return ss, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
