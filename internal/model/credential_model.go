package model

import "time"

type Credential struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	Scopes       []string
	ClientID     string
	Provider     string
	Subject      string
	Email        string
	ObtainedAt   time.Time
}

// Redacted returns a prefix of the access token that is safe to show back to the user.
func (c Credential) Redacted() string {
	if len(c.AccessToken) <= 10 {
		return "..."
	}
	return c.AccessToken[:10] + "..."
}
