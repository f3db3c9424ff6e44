package models

import (
	"fmt"
	"time"
)

// ExpiryUnit is the unit of an expiry policy duration.
type ExpiryUnit string

const (
	UnitDay   ExpiryUnit = "day"
	UnitWeek  ExpiryUnit = "week"
	UnitMonth ExpiryUnit = "month"
)

// ExpiryPolicy describes how long a message stays readable, as chosen by the
// sender ("2 days", "1 week", ...).
type ExpiryPolicy struct {
	Duration int        `json:"duration"`
	Unit     ExpiryUnit `json:"unit"`
}

// ExpiresAt resolves the policy against a reference time.
func (p ExpiryPolicy) ExpiresAt(now time.Time) (time.Time, error) {
	if p.Duration <= 0 {
		return time.Time{}, fmt.Errorf("expiry duration must be positive, got %d", p.Duration)
	}
	switch p.Unit {
	case UnitDay:
		return now.AddDate(0, 0, p.Duration), nil
	case UnitWeek:
		return now.AddDate(0, 0, 7*p.Duration), nil
	case UnitMonth:
		return now.AddDate(0, p.Duration, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid expiry unit %q", p.Unit)
	}
}
