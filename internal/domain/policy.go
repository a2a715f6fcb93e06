package domain

import "time"

// Policy holds the business thresholds that govern appointment
// modification. Values are loaded from configuration so a policy change
// does not require touching validation code.
type Policy struct {
	ModificationLeadTime time.Duration
	MinDurationMinutes   int
	MaxDurationMinutes   int
	DurationIncrement    int
	MaxNotesLength       int
}

func DefaultPolicy() Policy {
	return Policy{
		ModificationLeadTime: 24 * time.Hour,
		MinDurationMinutes:   15,
		MaxDurationMinutes:   480,
		DurationIncrement:    15,
		MaxNotesLength:       500,
	}
}
