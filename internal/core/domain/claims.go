package domain

import "time"

// Claims is the identity asserted by a verified token.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// Decision is the outcome of an authentication or authorization check.
// Reason is nil when Allowed is true.
type Decision struct {
	Allowed bool
	Claims  *Claims
	Reason  error
}

// Allow builds an allowing decision for the given claims (which may be nil for
// allow-listed paths).
func Allow(c *Claims) Decision {
	return Decision{Allowed: true, Claims: c}
}

// Deny builds a rejecting decision.
func Deny(reason error) Decision {
	return Decision{Reason: reason}
}
