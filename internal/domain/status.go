package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type StatusName string

const (
	StatusPending    StatusName = "PENDING"
	StatusConfirmed  StatusName = "CONFIRMED"
	StatusInProgress StatusName = "IN_PROGRESS"
	StatusCompleted  StatusName = "COMPLETED"
	StatusCancelled  StatusName = "CANCELLED"
	StatusNoShow     StatusName = "NO_SHOW"
)

type StatusClassification string

const (
	StatusActive   StatusClassification = "ACTIVE"
	StatusTerminal StatusClassification = "TERMINAL"
)

// statusClassifications is the single table that decides which statuses are
// terminal. Adding a terminal status means adding a row here; terminality is
// never inferred from name patterns.
var statusClassifications = map[StatusName]StatusClassification{
	StatusPending:    StatusActive,
	StatusConfirmed:  StatusActive,
	StatusInProgress: StatusActive,
	StatusCompleted:  StatusTerminal,
	StatusCancelled:  StatusTerminal,
	StatusNoShow:     StatusTerminal,
}

func ClassificationOf(name StatusName) StatusClassification {
	if c, ok := statusClassifications[name]; ok {
		return c
	}
	return StatusActive
}

type AppointmentStatus struct {
	bun.BaseModel `bun:"table:appointment_statuses,alias:st"`

	ID             uuid.UUID            `bun:"id,pk,type:uuid"`
	Name           StatusName           `bun:"name,notnull"`
	Description    string               `bun:"description"`
	Classification StatusClassification `bun:"classification,notnull"`
}

// IsTerminal reads the stored classification; the name table above is only
// consulted when a row is created without one.
func (s *AppointmentStatus) IsTerminal() bool {
	return s.Classification == StatusTerminal
}

func (s *AppointmentStatus) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if s.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = id
	}
	if s.Classification == "" {
		s.Classification = ClassificationOf(s.Name)
	}
	return nil
}
