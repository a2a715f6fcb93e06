package domain

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID              uuid.UUID   `bun:"id,pk,type:uuid"`
	UserID          uuid.UUID   `bun:"user_id,type:uuid,notnull"`
	ClientID        uuid.UUID   `bun:"client_id,type:uuid,notnull"`
	ScheduleID      uuid.UUID   `bun:"schedule_id,type:uuid,notnull"`
	StatusID        uuid.UUID   `bun:"status_id,type:uuid,notnull"`
	StylistID       *uuid.UUID  `bun:"stylist_id,type:uuid"`
	ServiceIDs      []uuid.UUID `bun:"service_ids,array,notnull"`
	DateTime        time.Time   `bun:"date_time,notnull"`
	DurationMinutes int         `bun:"duration_minutes,notnull"`
	Notes           string      `bun:"notes"`
	ConfirmedAt     *time.Time  `bun:"confirmed_at"`
	CreatedAt       time.Time   `bun:"created_at,notnull"`
	UpdatedAt       time.Time   `bun:"updated_at,notnull"`

	Status *AppointmentStatus `bun:"rel:belongs-to,join:status_id=id"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

func (a *Appointment) EndTime() time.Time {
	return a.DateTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

func (a *Appointment) IsConfirmed() bool {
	return a.Status != nil && a.Status.Name == StatusConfirmed
}

func (a *Appointment) IsTerminal() bool {
	return a.Status != nil && a.Status.IsTerminal()
}

// CanBeModified is the single gate for in-place edits: the appointment must
// not have reached a terminal status and now must still be more than
// leadTime before the scheduled start.
func (a *Appointment) CanBeModified(now time.Time, leadTime time.Duration) bool {
	if a.IsTerminal() {
		return false
	}
	return a.DateTime.After(now.Add(leadTime))
}

// IsParticipant reports whether id is the booking user or the assigned
// stylist, the only two actors allowed to modify the appointment.
func (a *Appointment) IsParticipant(id uuid.UUID) bool {
	if id == a.UserID {
		return true
	}
	return a.StylistID != nil && id == *a.StylistID
}

func ValidateDuration(minutes int, p Policy) error {
	switch {
	case minutes <= 0:
		return NewValidationError("duration must be greater than 0")
	case minutes < p.MinDurationMinutes:
		return NewValidationError(fmt.Sprintf("duration must be at least %d minutes", p.MinDurationMinutes))
	case minutes > p.MaxDurationMinutes:
		return NewValidationError(fmt.Sprintf("duration must be at most %d minutes", p.MaxDurationMinutes))
	case minutes%p.DurationIncrement != 0:
		return NewValidationError(fmt.Sprintf("duration must be a multiple of %d minutes", p.DurationIncrement))
	}
	return nil
}

// Mutators re-validate the invariant they touch and stamp UpdatedAt. None
// of them persists; that is the orchestrator's job after all fields apply.

func (a *Appointment) Reschedule(t, now time.Time) error {
	if !t.After(now) {
		return NewValidationError("date_time must be in the future")
	}
	a.DateTime = t.UTC()
	a.touch(now)
	return nil
}

func (a *Appointment) ChangeDuration(minutes int, p Policy, now time.Time) error {
	if err := ValidateDuration(minutes, p); err != nil {
		return err
	}
	a.DurationMinutes = minutes
	a.touch(now)
	return nil
}

func (a *Appointment) AssignStylist(id uuid.UUID, now time.Time) error {
	if id == uuid.Nil {
		return NewValidationError("stylist_id must not be empty")
	}
	a.StylistID = &id
	a.touch(now)
	return nil
}

func (a *Appointment) ReplaceServices(ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return NewValidationError("at least one service is required")
	}
	a.ServiceIDs = append([]uuid.UUID(nil), ids...)
	a.touch(now)
	return nil
}

func (a *Appointment) AttachNotes(notes string, p Policy, now time.Time) error {
	if utf8.RuneCountInString(notes) > p.MaxNotesLength {
		return NewValidationError(fmt.Sprintf("notes must be at most %d characters", p.MaxNotesLength))
	}
	a.Notes = notes
	a.touch(now)
	return nil
}

func (a *Appointment) touch(now time.Time) {
	a.UpdatedAt = now.UTC()
}
