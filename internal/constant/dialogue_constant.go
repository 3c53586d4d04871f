package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// Intent tags returned to the caller. Closed set consumed by the UI.
const (
	IntentGreeting        = "greeting"
	IntentGeneralResponse = "general_response"
	IntentFileSearch      = "file_search"
	IntentError           = "error"
	IntentSessionExpired  = "session_expired"
)

// Retention policy applied on the chat hot path
const (
	ChatRetentionDays = 3  // messages older than this are purged every turn
	ChatHistoryLimit  = 10 // chats kept per user; oldest beyond are deleted
)

// User-facing dialogue messages
const (
	MsgSessionExpired     = "❌ Session expired. Please log in again."
	MsgMissingChat        = "❌ Missing chat session ID."
	MsgGreeting           = "Hi there! 👋\nWhat file are you looking for today or how can I help?"
	MsgNoFilesFound       = "📁 No files found for your request. Try being more specific."
	MsgNoAccessSingle     = "❌ You don’t have access to this file."
	MsgSelectPrompt       = "Here are some files I found. Please select the files you want (e.g., 1,3):"
	MsgClarify            = "⚠️ I couldn’t understand your request. Please rephrase or provide more detail."
	MsgGenericError       = "⚠️ Something went wrong. Please try again."
	MsgListExpired        = "⚠️ The file list has expired. Please try your query again."
	MsgSelectionCancelled = "❌ Selection cancelled. What else can I help you with?"
	MsgInvalidSelection   = "❌ Invalid selection. Please enter valid numbers."
	MsgNoAccessAny        = "❌ You don’t have access to any of the selected files."
)
