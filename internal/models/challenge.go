package models

import (
	"time"
)

// VerificationChallenge is a short-lived one-time code issued to a voter
// during eligibility verification. Challenges are ephemeral: they live only
// in the TTL cache, keyed by (electionId, studentNo), and are consumed
// exactly once when a ballot is cast.
type VerificationChallenge struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its TTL at the given time.
func (c *VerificationChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
