package types

import (
	coretypes "github.com/allylabs/allychat/core/types"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message     string                  `json:"message"`
	ChatHistory []coretypes.ChatMessage `json:"chatHistory"`
}

// ChatResponse is always returned with HTTP 200 once the agent has been
// invoked; Fallback marks canned answers served when the agent failed.
type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the static descriptor served on GET /api/chat.
type StatusResponse struct {
	Message  string   `json:"message"`
	Status   string   `json:"status"`
	Model    string   `json:"model"`
	Features []string `json:"features"`
	Tools    []string `json:"tools"`
}
