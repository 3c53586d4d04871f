package entity

import (
	"time"
)

// Chat is one conversation thread owned by a user. The id is assigned by
// the client flow at creation time and stays stable for the thread's life.
type Chat struct {
	ChatID    string
	UserEmail string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
