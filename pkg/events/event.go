package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the service
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Session lifecycle events consumed by audit tooling

func NewUserLoggedIn(accountID, email string) BaseEvent {
	return BaseEvent{
		Type: "USER_LOGIN",
		Data: map[string]interface{}{
			"account_id": accountID,
			"email":      email,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionExpired(accountID string) BaseEvent {
	return BaseEvent{
		Type: "SESSION_EXPIRED",
		Data: map[string]interface{}{
			"account_id": accountID,
		},
		OccurredAt: time.Now(),
	}
}

func NewFilesDelivered(email string, fileIDs []string) BaseEvent {
	return BaseEvent{
		Type: "FILES_DELIVERED",
		Data: map[string]interface{}{
			"email":    email,
			"file_ids": fileIDs,
			"count":    len(fileIDs),
		},
		OccurredAt: time.Now(),
	}
}
