package claims

import "time"

// DefaultNearExpiryThreshold is the lead time before hard expiry at which a
// proactive refresh becomes eligible. Five minutes leaves the refresh call
// enough room to complete under normal network latency.
const DefaultNearExpiryThreshold = 5 * time.Minute

// All expiry arithmetic lives in this file. Every other package must call
// through these functions rather than comparing timestamps itself.

// IsExpired reports whether the credential is hard-expired at the given time.
func IsExpired(c Claims, now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IsNearExpiry reports whether the credential expires within threshold of now.
func IsNearExpiry(c Claims, now time.Time, threshold time.Duration) bool {
	return c.ExpiresAt.Sub(now) < threshold
}

// TimeRemaining returns the duration until hard expiry, floored at zero.
func TimeRemaining(c Claims, now time.Time) time.Duration {
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
