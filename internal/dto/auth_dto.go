package dto

type CheckLoginResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email,omitempty"`
}

type SessionStateResponse struct {
	Stage  string `json:"stage"`
	ChatID string `json:"chat_id"`
	Email  string `json:"email,omitempty"`
}
