package model

import "time"

// Attempt is the pending half of an authorization flow, stored under its state token.
type Attempt struct {
	ID       string
	Identity Identity
	Verifier string
	IssuedAt time.Time
}
