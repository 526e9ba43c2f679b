// internal/expiration/policy.go

// Package expiration classifies product freshness from an expiry date.
// Everything here is a pure function of its arguments; callers supply the
// reference time so the same inputs always classify the same way.
package expiration

import (
	"fmt"
	"math"
	"time"
)

type Status string

const (
	StatusFresh        Status = "fresh"
	StatusExpiresSoon  Status = "expires-soon"
	StatusExpiresToday Status = "expires-today"
	StatusExpired      Status = "expired"
)

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

type Color string

const (
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorDanger  Color = "danger"
)

// SoonThresholdDays is the default "expires soon" window.
const SoonThresholdDays = 3

type Classification struct {
	Status        Status  `json:"status"`
	DaysRemaining int     `json:"days_remaining"`
	Urgency       Urgency `json:"urgency_level"`
	Color         Color   `json:"color"`
	Message       string  `json:"message"`
}

// DaysUntil returns the signed number of days between now and expiry,
// rounded up so that any part of a remaining day counts as a full day.
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// IsExpired reports whether the expiry date is strictly in the past.
func IsExpired(expiry, now time.Time) bool {
	return now.After(expiry)
}

// IsExpiringSoon reports whether the expiry date falls within the next
// `days` days, excluding items expiring today or already expired.
func IsExpiringSoon(expiry time.Time, days int, now time.Time) bool {
	remaining := DaysUntil(expiry, now)
	return remaining > 0 && remaining <= days
}

// Classify maps an expiry date onto exactly one freshness status. The four
// statuses partition the day axis: expired (<0), expires-today (0),
// expires-soon (1..3), fresh (>3).
func Classify(expiry, now time.Time) Classification {
	remaining := DaysUntil(expiry, now)

	switch {
	case remaining < 0:
		return Classification{
			Status:        StatusExpired,
			DaysRemaining: remaining,
			Urgency:       UrgencyCritical,
			Color:         ColorDanger,
			Message:       fmt.Sprintf("Expired %d day(s) ago", -remaining),
		}
	case remaining == 0:
		return Classification{
			Status:        StatusExpiresToday,
			DaysRemaining: 0,
			Urgency:       UrgencyCritical,
			Color:         ColorDanger,
			Message:       "Expires today",
		}
	case remaining <= SoonThresholdDays:
		return Classification{
			Status:        StatusExpiresSoon,
			DaysRemaining: remaining,
			Urgency:       UrgencyHigh,
			Color:         ColorWarning,
			Message:       fmt.Sprintf("Expires in %d day(s)", remaining),
		}
	default:
		return Classification{
			Status:        StatusFresh,
			DaysRemaining: remaining,
			Urgency:       UrgencyLow,
			Color:         ColorSuccess,
			Message:       fmt.Sprintf("Fresh (%d days remaining)", remaining),
		}
	}
}
