package scanner

import (
	"time"

	"urlsentinel/internal/scanner/tools"
)

// Registration age bucket boundaries in days.
const (
	VeryNewDays     = 30
	EstablishedDays = 365
)

// AgeBucket is the coarse classification of a registration age.
type AgeBucket string

const (
	AgeUnknown       AgeBucket = "unknown"
	AgeVeryNew       AgeBucket = "very new"
	AgeModeratelyNew AgeBucket = "moderately new"
	AgeEstablished   AgeBucket = "established"
)

// DomainAge is the number of whole days since registration. Known is
// false when no usable creation date was found.
type DomainAge struct {
	Days  int
	Known bool
}

// EstimateAge derives the age from a creation-date value of any shape
// accepted by tools.NormalizeInstant. Dates in the future count as
// unknown.
func EstimateAge(created any, now time.Time) DomainAge {
	t, ok := tools.NormalizeInstant(created)
	if !ok {
		return DomainAge{}
	}

	elapsed := now.UTC().Sub(t)
	if elapsed < 0 {
		return DomainAge{}
	}

	return DomainAge{Days: int(elapsed / (24 * time.Hour)), Known: true}
}

func (a DomainAge) Bucket() AgeBucket {
	switch {
	case !a.Known:
		return AgeUnknown
	case a.Days < VeryNewDays:
		return AgeVeryNew
	case a.Days < EstablishedDays:
		return AgeModeratelyNew
	default:
		return AgeEstablished
	}
}

// DaysPtr returns the age for JSON output, nil when unknown.
func (a DomainAge) DaysPtr() *int {
	if !a.Known {
		return nil
	}
	d := a.Days
	return &d
}
