package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salonbook/internal/domain"
	"salonbook/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Relation("Status").
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) FindConflicting(ctx context.Context, stylistID uuid.UUID, windowStart, windowEnd time.Time, excludeID uuid.UUID) ([]domain.Appointment, error) {
	return findConflicting(ctx, r.db, stylistID, windowStart, windowEnd, excludeID)
}

// Update writes the appointment inside a transaction that holds an
// advisory lock on the stylist's calendar and re-runs the conflict query
// under that lock, so two concurrent writers for the same stylist cannot
// both pass the pre-check and persist overlapping windows.
func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if appt.StylistID != nil {
			if err := lockStylistCalendar(ctx, tx, *appt.StylistID); err != nil {
				return err
			}
			conflicts, err := findConflicting(ctx, tx, *appt.StylistID, appt.DateTime, appt.EndTime(), appt.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return store.ErrConflict
			}
		}

		m := appt
		m.Status = nil
		res, err := tx.NewUpdate().
			Model(&m).
			WherePK().
			Exec(ctx)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return store.ErrNotFound
			}
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}

		m.Status = appt.Status
		out = m
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func lockStylistCalendar(ctx context.Context, tx bun.Tx, stylistID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", stylistID.String()).Exec(ctx)
	return err
}

func findConflicting(ctx context.Context, idb bun.IDB, stylistID uuid.UUID, windowStart, windowEnd time.Time, excludeID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := idb.NewSelect().
		Model(&rows).
		Where("a.stylist_id = ?", stylistID).
		Where("a.id != ?", excludeID).
		Where("a.date_time < ?", windowEnd).
		Where("a.date_time + make_interval(mins => a.duration_minutes) > ?", windowStart).
		Where("a.status_id IN (SELECT id FROM appointment_statuses WHERE classification = ?)", domain.StatusActive).
		OrderExpr("a.date_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
