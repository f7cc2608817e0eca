package model

import "fmt"

// Identity is the chat principal that owns an authorization attempt.
type Identity struct {
	ChatID   int64
	UserID   int64
	Username string
}

func (i Identity) IsZero() bool {
	return i.ChatID == 0 && i.UserID == 0
}

// Key is stable for the same user in the same chat and is used to index cached credentials.
func (i Identity) Key() string {
	return fmt.Sprintf("%d@%d", i.UserID, i.ChatID)
}

func (i Identity) String() string {
	if i.Username != "" {
		return fmt.Sprintf("@%s (%d)", i.Username, i.UserID)
	}
	return fmt.Sprintf("%d", i.UserID)
}
