package dto

import (
	"file-concierge-be/pkg/store"
)

// ChatRequest is one turn of the dialogue from the UI. Index values are not
// bounded here: the selection flow drops out-of-range picks itself.
type ChatRequest struct {
	Message         string `json:"message" validate:"max=4000"`
	SelectionStage  bool   `json:"selectionStage"`
	SelectedIndices []int  `json:"selectedIndices" validate:"max=50"`
	ChatID          string `json:"chat_id" validate:"max=64"`
}

type ChatResponse struct {
	Response string    `json:"response"`
	Intent   string    `json:"intent"`
	PauseGPT bool      `json:"pauseGPT,omitempty"`
	Files    []FileDTO `json:"files,omitempty"`
}

type FileDTO struct {
	Name   string `json:"name"`
	WebURL string `json:"webUrl"`
}

type NewChatResponse struct {
	ChatID string `json:"chat_id"`
}

type ChatSummaryDTO struct {
	ChatID    string `json:"chat_id"`
	CreatedAt string `json:"created_at"`
}

type MessageDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NotifyFilesMessage rides the in-process bus from the dialogue turn to the
// mail worker. The token is delegated and short lived; the message never
// leaves the process.
type NotifyFilesMessage struct {
	AccessToken string                `json:"access_token"`
	Email       string                `json:"email"`
	Files       []store.FileCandidate `json:"files"`
}
