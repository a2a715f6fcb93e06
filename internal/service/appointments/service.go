package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"salonbook/internal/clock"
	"salonbook/internal/domain"
	"salonbook/internal/store"
)

// Service orchestrates in-place appointment modification: structural
// validation, authorization, business-rule gates, conflict detection and
// the single persistence write. Every stage is a hard gate; the first
// failure aborts with no write.
type Service struct {
	appointments store.AppointmentRepository
	stylists     store.StylistRepository
	services     store.ServiceRepository
	clock        clock.Clock
	policy       domain.Policy
}

func NewService(appointments store.AppointmentRepository, stylists store.StylistRepository, services store.ServiceRepository, clk clock.Clock, opts ...Option) *Service {
	svc := &Service{
		appointments: appointments,
		stylists:     stylists,
		services:     services,
		clock:        clk,
		policy:       domain.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type Option func(*Service)

// WithPolicy overrides the default modification policy.
func WithPolicy(p domain.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// UpdateInput carries one modification request. All change fields are
// optional; at least one of DateTime, Duration, StylistID, ServiceIDs or
// Notes must be set. NotifyClient is informational only and passed through
// to the view untouched.
type UpdateInput struct {
	AppointmentID string
	RequesterID   uuid.UUID
	DateTime      *string
	Duration      *int
	StylistID     *uuid.UUID
	ServiceIDs    []uuid.UUID
	Notes         *string
	Reason        *string
	NotifyClient  *bool
}

func (in UpdateInput) hasChanges() bool {
	return in.DateTime != nil || in.Duration != nil || in.StylistID != nil || len(in.ServiceIDs) > 0 || in.Notes != nil
}

func (in UpdateInput) changesWindow() bool {
	return in.DateTime != nil || in.Duration != nil || in.StylistID != nil
}

func (in UpdateInput) hasExplanation() bool {
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		return true
	}
	return in.Reason != nil && strings.TrimSpace(*in.Reason) != ""
}

// AppointmentView is the caller-facing projection of an updated
// appointment. Timestamps are RFC3339 UTC text; service ids keep the order
// they were submitted in.
type AppointmentView struct {
	ID              string
	UserID          string
	ClientID        string
	ScheduleID      string
	StatusID        string
	StatusName      string
	StylistID       *string
	ServiceIDs      []string
	DateTime        string
	DurationMinutes int
	Notes           string
	ConfirmedAt     *string
	CreatedAt       string
	UpdatedAt       string
	NotifyClient    bool
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (AppointmentView, error) {
	// Stage 1: structural validation, before any lookup.
	rawID := strings.TrimSpace(in.AppointmentID)
	if rawID == "" {
		return AppointmentView{}, domain.NewValidationError("appointment_id is required")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return AppointmentView{}, domain.NewValidationError("appointment_id must be a valid UUID")
	}
	if in.RequesterID == uuid.Nil {
		return AppointmentView{}, domain.NewValidationError("requester_id is required")
	}
	if !in.hasChanges() {
		return AppointmentView{}, domain.NewValidationError("at least one field must be provided")
	}

	now := s.clock.Now()

	var newStart time.Time
	if in.DateTime != nil {
		t, err := time.Parse(time.RFC3339, *in.DateTime)
		if err != nil {
			return AppointmentView{}, domain.NewValidationError("date_time must be a valid RFC3339 timestamp")
		}
		if !t.After(now) {
			return AppointmentView{}, domain.NewValidationError("date_time must be in the future")
		}
		newStart = t.UTC()
	}
	if in.Duration != nil {
		if err := domain.ValidateDuration(*in.Duration, s.policy); err != nil {
			return AppointmentView{}, err
		}
	}
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > s.policy.MaxNotesLength {
		return AppointmentView{}, domain.NewValidationError(fmt.Sprintf("notes must be at most %d characters", s.policy.MaxNotesLength))
	}

	// Stage 2: existence.
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AppointmentView{}, domain.NewNotFoundError("Appointment", id.String())
		}
		return AppointmentView{}, err
	}

	// Stage 3: authorization, before any state-based rule.
	if !appt.IsParticipant(in.RequesterID) {
		return AppointmentView{}, domain.NewBusinessRuleError("you don't have permission to modify this appointment")
	}

	// Stage 4: terminal status and lead time, as distinct failures.
	if appt.IsTerminal() {
		return AppointmentView{}, domain.NewBusinessRuleError(fmt.Sprintf("appointment in terminal status %s cannot be modified", appt.Status.Name))
	}
	if !appt.CanBeModified(now, s.policy.ModificationLeadTime) {
		hours := int(s.policy.ModificationLeadTime / time.Hour)
		return AppointmentView{}, domain.NewBusinessRuleError(fmt.Sprintf("appointments can only be modified more than %d hours before their start time", hours))
	}

	// Stage 5: rescheduling a confirmed appointment needs an explanation.
	if appt.IsConfirmed() && in.DateTime != nil && !in.hasExplanation() {
		return AppointmentView{}, domain.NewBusinessRuleError("rescheduling a confirmed appointment requires notes or a reason")
	}

	// Stage 6: referential checks.
	if in.StylistID != nil {
		if _, err := s.stylists.FindByID(ctx, *in.StylistID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return AppointmentView{}, domain.NewNotFoundError("Stylist", in.StylistID.String())
			}
			return AppointmentView{}, err
		}
	}
	for _, serviceID := range in.ServiceIDs {
		if _, err := s.services.FindByID(ctx, serviceID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return AppointmentView{}, domain.NewNotFoundError("Service", serviceID.String())
			}
			return AppointmentView{}, err
		}
	}

	// Stage 7: conflict scan, only when the time window or stylist moves.
	if in.changesWindow() {
		start := appt.DateTime
		if in.DateTime != nil {
			start = newStart
		}
		duration := appt.DurationMinutes
		if in.Duration != nil {
			duration = *in.Duration
		}
		stylistID := appt.StylistID
		if in.StylistID != nil {
			stylistID = in.StylistID
		}
		// Without a stylist there is nobody to double-book.
		if stylistID != nil {
			end := start.Add(time.Duration(duration) * time.Minute)
			conflicts, err := s.appointments.FindConflicting(ctx, *stylistID, start, end, appt.ID)
			if err != nil {
				return AppointmentView{}, err
			}
			if len(conflicts) > 0 {
				return AppointmentView{}, domain.NewConflictError(len(conflicts))
			}
		}
	}

	// Stage 8: apply through the entity's own validated mutators, then the
	// single persistence write.
	if in.DateTime != nil {
		if err := appt.Reschedule(newStart, now); err != nil {
			return AppointmentView{}, err
		}
	}
	if in.Duration != nil {
		if err := appt.ChangeDuration(*in.Duration, s.policy, now); err != nil {
			return AppointmentView{}, err
		}
	}
	if in.StylistID != nil {
		if err := appt.AssignStylist(*in.StylistID, now); err != nil {
			return AppointmentView{}, err
		}
	}
	if len(in.ServiceIDs) > 0 {
		if err := appt.ReplaceServices(in.ServiceIDs, now); err != nil {
			return AppointmentView{}, err
		}
	}
	if in.Notes != nil {
		if err := appt.AttachNotes(*in.Notes, s.policy, now); err != nil {
			return AppointmentView{}, err
		}
	}

	updated, err := s.appointments.Update(ctx, appt)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return AppointmentView{}, s.conflictAtWrite(ctx, appt)
		}
		return AppointmentView{}, err
	}

	notify := in.NotifyClient != nil && *in.NotifyClient
	return newAppointmentView(updated, notify), nil
}

// conflictAtWrite turns a write-time conflict (a concurrent request won the
// race) into the same error shape as the stage-7 scan, recounting the
// overlap so the reported number is accurate.
func (s *Service) conflictAtWrite(ctx context.Context, appt domain.Appointment) error {
	count := 1
	if appt.StylistID != nil {
		conflicts, err := s.appointments.FindConflicting(ctx, *appt.StylistID, appt.DateTime, appt.EndTime(), appt.ID)
		if err == nil && len(conflicts) > 0 {
			count = len(conflicts)
		}
	}
	return domain.NewConflictError(count)
}

func newAppointmentView(appt domain.Appointment, notify bool) AppointmentView {
	view := AppointmentView{
		ID:              appt.ID.String(),
		UserID:          appt.UserID.String(),
		ClientID:        appt.ClientID.String(),
		ScheduleID:      appt.ScheduleID.String(),
		StatusID:        appt.StatusID.String(),
		ServiceIDs:      make([]string, 0, len(appt.ServiceIDs)),
		DateTime:        formatTimestamp(appt.DateTime),
		DurationMinutes: appt.DurationMinutes,
		Notes:           appt.Notes,
		CreatedAt:       formatTimestamp(appt.CreatedAt),
		UpdatedAt:       formatTimestamp(appt.UpdatedAt),
		NotifyClient:    notify,
	}
	if appt.Status != nil {
		view.StatusName = string(appt.Status.Name)
	}
	if appt.StylistID != nil {
		id := appt.StylistID.String()
		view.StylistID = &id
	}
	if appt.ConfirmedAt != nil {
		ts := formatTimestamp(*appt.ConfirmedAt)
		view.ConfirmedAt = &ts
	}
	for _, serviceID := range appt.ServiceIDs {
		view.ServiceIDs = append(view.ServiceIDs, serviceID.String())
	}
	return view
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
