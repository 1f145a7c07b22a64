package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arlunn/munin/internal/apperr"
	"github.com/arlunn/munin/internal/assistant"
	"github.com/arlunn/munin/internal/convo"
	"github.com/arlunn/munin/internal/settings"
	"github.com/arlunn/munin/internal/vault"
)

// Handler holds API route handlers.
type Handler struct {
	svc           *assistant.Service
	vault         *vault.Vault
	settings      *settings.Store
	convos        *convo.DB
	llmConfigured bool
}

// NewHandler creates a new Handler.
func NewHandler(svc *assistant.Service, v *vault.Vault, st *settings.Store, convos *convo.DB, llmConfigured bool) *Handler {
	return &Handler{svc: svc, vault: v, settings: st, convos: convos, llmConfigured: llmConfigured}
}

// Message handles POST /api/message: interpret and execute a chat message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("message is required"))
		return
	}

	reply := h.svc.HandleMessage(r.Context(), req.Message)

	convID := req.ConversationID
	if convID == "" {
		convID = "conv_" + time.Now().Format("20060102150405")
	} else if h.settings.Get().SaveConversations {
		if err := h.convos.Append(convID, req.Message, reply); err != nil {
			slog.Warn("save conversation failed",
				slog.String("id", convID), slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, MessageResponse{Response: reply, ConversationID: convID})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// UpdateSettings handles PUT /api/settings with a full settings document.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	// Start from the current settings so a partial document only changes
	// the fields it names.
	next := h.settings.Get()
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.settings.Update(next); err != nil {
		slog.Error("update settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// Themes handles GET /api/themes.
func (h *Handler) Themes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ThemesResponse{
		Themes:   settings.ThemeNames(),
		Palettes: settings.Themes,
	})
}

// ListConversations handles GET /api/conversations.
func (h *Handler) ListConversations(w http.ResponseWriter, _ *http.Request) {
	list, err := h.convos.List()
	if err != nil {
		slog.Error("list conversations failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ConversationListResponse{Conversations: list})
}

// GetConversation handles GET /api/conversations/{id}.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.convos.Get(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("conversation not found"))
		} else {
			slog.Error("get conversation failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteConversation handles DELETE /api/conversations/{id}.
func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.convos.Delete(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("conversation not found"))
		} else {
			slog.Error("delete conversation failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Vault handles GET /api/vault: the nested folder/file structure.
func (h *Handler) Vault(w http.ResponseWriter, _ *http.Request) {
	tree, err := h.vault.Structure()
	if err != nil {
		slog.Error("vault structure failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, VaultResponse{Folders: tree})
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	_, err := os.Stat(h.vault.Root())
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:          "ok",
		Timestamp:       time.Now(),
		LLMConfigured:   h.llmConfigured,
		VaultAccessible: err == nil,
	})
}
