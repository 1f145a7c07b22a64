package api

import (
	"time"

	"github.com/arlunn/munin/internal/convo"
	"github.com/arlunn/munin/internal/models"
	"github.com/arlunn/munin/internal/settings"
)

// MessageRequest is the request body for POST /message.
type MessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// MessageResponse is the reply to a chat message.
type MessageResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// StatusResponse reports service health details.
type StatusResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	LLMConfigured   bool      `json:"llm_configured"`
	VaultAccessible bool      `json:"vault_accessible"`
}

// ThemesResponse lists the available theme palettes.
type ThemesResponse struct {
	Themes   []string                  `json:"themes"`
	Palettes map[string]settings.Theme `json:"palettes"`
}

// VaultResponse wraps the vault structure tree.
type VaultResponse struct {
	Folders []*models.Folder `json:"folders"`
}

// ConversationListResponse wraps conversation summaries.
type ConversationListResponse struct {
	Conversations []convo.Summary `json:"conversations"`
}
