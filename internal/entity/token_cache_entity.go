package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TokenCache holds the serialized OAuth token state for one directory
// account. Cache is opaque JSON owned by the identity client.
type TokenCache struct {
	Id        uuid.UUID
	AccountID string
	UserEmail string
	Cache     json.RawMessage
	UpdatedAt time.Time
}
