// internal/expiration/policy_test.go
package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time {
	return now.Add(time.Duration(n) * 24 * time.Hour)
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		expiry   time.Time
		status   Status
		daysLeft int
		urgency  Urgency
		color    Color
	}{
		{"expired yesterday", days(-1), StatusExpired, -1, UrgencyCritical, ColorDanger},
		{"expires today", now, StatusExpiresToday, 0, UrgencyCritical, ColorDanger},
		{"expires tomorrow", days(1), StatusExpiresSoon, 1, UrgencyHigh, ColorWarning},
		{"expires in two days", days(2), StatusExpiresSoon, 2, UrgencyHigh, ColorWarning},
		{"soon threshold", days(3), StatusExpiresSoon, 3, UrgencyHigh, ColorWarning},
		{"just past threshold", days(4), StatusFresh, 4, UrgencyLow, ColorSuccess},
		{"long shelf life", days(30), StatusFresh, 30, UrgencyLow, ColorSuccess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(tc.expiry, now)
			assert.Equal(t, tc.status, c.Status)
			assert.Equal(t, tc.daysLeft, c.DaysRemaining)
			assert.Equal(t, tc.urgency, c.Urgency)
			assert.Equal(t, tc.color, c.Color)
			assert.NotEmpty(t, c.Message)
		})
	}
}

func TestClassifyPartialDaysRoundUp(t *testing.T) {
	// An hour from now still counts as one day remaining.
	c := Classify(now.Add(time.Hour), now)
	assert.Equal(t, StatusExpiresSoon, c.Status)
	assert.Equal(t, 1, c.DaysRemaining)
}

func TestClassifyExpiredMessageCarriesDayCount(t *testing.T) {
	c := Classify(days(-3), now)
	assert.Equal(t, StatusExpired, c.Status)
	assert.Equal(t, -3, c.DaysRemaining)
	assert.Contains(t, c.Message, "3")
}

func TestClassifyIsTotal(t *testing.T) {
	// Every offset maps onto exactly one status; no gaps at the boundaries.
	seen := map[Status]bool{}
	for offset := -5; offset <= 10; offset++ {
		c := Classify(days(offset), now)
		switch {
		case offset < 0:
			assert.Equal(t, StatusExpired, c.Status, "offset %d", offset)
		case offset == 0:
			assert.Equal(t, StatusExpiresToday, c.Status, "offset %d", offset)
		case offset <= SoonThresholdDays:
			assert.Equal(t, StatusExpiresSoon, c.Status, "offset %d", offset)
		default:
			assert.Equal(t, StatusFresh, c.Status, "offset %d", offset)
		}
		seen[c.Status] = true
	}
	assert.Len(t, seen, 4)
}

func TestIsExpired(t *testing.T) {
	assert.True(t, IsExpired(days(-1), now))
	assert.True(t, IsExpired(now.Add(-time.Minute), now))
	assert.False(t, IsExpired(now, now))
	assert.False(t, IsExpired(days(2), now))
}

func TestIsExpiringSoonMatchesClassification(t *testing.T) {
	// expires-soon is the only status IsExpiringSoon agrees with: items
	// expiring today and expired items are excluded.
	for offset := -3; offset <= 6; offset++ {
		expiry := days(offset)
		soon := IsExpiringSoon(expiry, SoonThresholdDays, now)
		status := Classify(expiry, now).Status
		assert.Equal(t, status == StatusExpiresSoon, soon, "offset %d", offset)
	}
}

func TestIsExpiringSoonCustomWindow(t *testing.T) {
	assert.True(t, IsExpiringSoon(days(6), 7, now))
	assert.False(t, IsExpiringSoon(days(8), 7, now))
	assert.False(t, IsExpiringSoon(days(-1), 7, now))
}
