package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func activeStatus(name StatusName) *AppointmentStatus {
	return &AppointmentStatus{ID: uuid.New(), Name: name, Classification: ClassificationOf(name)}
}

func testAppointment(t *testing.T) Appointment {
	t.Helper()
	status := activeStatus(StatusPending)
	stylistID := uuid.New()
	return Appointment{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		ClientID:        uuid.New(),
		ScheduleID:      uuid.New(),
		StatusID:        status.ID,
		StylistID:       &stylistID,
		ServiceIDs:      []uuid.UUID{uuid.New()},
		DateTime:        testNow.Add(48 * time.Hour),
		DurationMinutes: 60,
		CreatedAt:       testNow.Add(-24 * time.Hour),
		UpdatedAt:       testNow.Add(-24 * time.Hour),
		Status:          status,
	}
}

func TestValidateDuration(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		name    string
		minutes int
		wantMsg string
	}{
		{"zero", 0, "duration must be greater than 0"},
		{"negative", -15, "duration must be greater than 0"},
		{"below minimum", 10, "duration must be at least 15 minutes"},
		{"above maximum", 500, "duration must be at most 480 minutes"},
		{"not an increment", 22, "duration must be a multiple of 15 minutes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDuration(tc.minutes, p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Error() != tc.wantMsg {
				t.Fatalf("message = %q, want %q", verr.Error(), tc.wantMsg)
			}
		})
	}

	for _, minutes := range []int{15, 30, 45, 120, 480} {
		if err := ValidateDuration(minutes, p); err != nil {
			t.Fatalf("duration %d: unexpected error %v", minutes, err)
		}
	}
}

func TestCanBeModified(t *testing.T) {
	leadTime := 24 * time.Hour

	appt := testAppointment(t)
	if !appt.CanBeModified(testNow, leadTime) {
		t.Fatal("appointment 48h out with active status should be modifiable")
	}

	appt.DateTime = testNow.Add(2 * time.Hour)
	if appt.CanBeModified(testNow, leadTime) {
		t.Fatal("appointment 2h out should not be modifiable")
	}

	// Exactly at the boundary is not "more than" the lead time.
	appt.DateTime = testNow.Add(leadTime)
	if appt.CanBeModified(testNow, leadTime) {
		t.Fatal("appointment exactly at the lead-time boundary should not be modifiable")
	}

	for _, name := range []StatusName{StatusCompleted, StatusCancelled, StatusNoShow} {
		appt := testAppointment(t)
		appt.Status = activeStatus(name)
		if appt.CanBeModified(testNow, leadTime) {
			t.Fatalf("terminal status %s should block modification", name)
		}
	}
}

func TestIsParticipant(t *testing.T) {
	appt := testAppointment(t)

	if !appt.IsParticipant(appt.UserID) {
		t.Fatal("booking user should be a participant")
	}
	if !appt.IsParticipant(*appt.StylistID) {
		t.Fatal("assigned stylist should be a participant")
	}
	if appt.IsParticipant(uuid.New()) {
		t.Fatal("unrelated actor should not be a participant")
	}

	appt.StylistID = nil
	if appt.IsParticipant(uuid.New()) {
		t.Fatal("without a stylist only the booking user participates")
	}
}

func TestReschedule(t *testing.T) {
	appt := testAppointment(t)

	if err := appt.Reschedule(testNow.Add(-time.Hour), testNow); err == nil {
		t.Fatal("rescheduling into the past should fail")
	}
	if err := appt.Reschedule(testNow, testNow); err == nil {
		t.Fatal("rescheduling to the current instant should fail")
	}

	target := testNow.Add(72 * time.Hour)
	if err := appt.Reschedule(target, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !appt.DateTime.Equal(target) {
		t.Fatalf("DateTime = %v, want %v", appt.DateTime, target)
	}
	if !appt.UpdatedAt.Equal(testNow) {
		t.Fatalf("UpdatedAt = %v, want %v", appt.UpdatedAt, testNow)
	}
}

func TestReplaceServices(t *testing.T) {
	appt := testAppointment(t)

	if err := appt.ReplaceServices(nil, testNow); err == nil {
		t.Fatal("empty service set should fail")
	}

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	if err := appt.ReplaceServices(ids, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appt.ServiceIDs) != len(ids) {
		t.Fatalf("got %d service ids, want %d", len(appt.ServiceIDs), len(ids))
	}
	for i := range ids {
		if appt.ServiceIDs[i] != ids[i] {
			t.Fatalf("service id order not preserved at %d", i)
		}
	}

	// The entity keeps its own copy.
	ids[0] = uuid.New()
	if appt.ServiceIDs[0] == ids[0] {
		t.Fatal("entity should not alias the caller's slice")
	}
}

func TestAttachNotes(t *testing.T) {
	appt := testAppointment(t)
	p := DefaultPolicy()

	long := make([]rune, p.MaxNotesLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := appt.AttachNotes(string(long), p, testNow); err == nil {
		t.Fatal("notes above the cap should fail")
	}

	if err := appt.AttachNotes(string(long[:p.MaxNotesLength]), p, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEndTime(t *testing.T) {
	appt := testAppointment(t)
	appt.DurationMinutes = 90
	want := appt.DateTime.Add(90 * time.Minute)
	if !appt.EndTime().Equal(want) {
		t.Fatalf("EndTime = %v, want %v", appt.EndTime(), want)
	}
}
