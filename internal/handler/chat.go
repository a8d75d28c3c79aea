package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/tdd-playground/internal/chat"
	"github.com/sakif/tdd-playground/internal/llm"
)

// ChatHandler streams LLM answers as server-sent events.
type ChatHandler struct {
	streamer *chat.Streamer
	logger   *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(streamer *chat.Streamer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{streamer: streamer, logger: logger}
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Messages []llm.Message `json:"messages"`
	Language string        `json:"language,omitempty"`
}

// HandleChat validates the request, then streams chunks until the answer ends.
// Once the stream has started, failures are reported as error chunks, not statuses.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := chat.ValidateMessages(req.Messages); err != nil {
		writeError(w, err)
		return
	}

	sse := newSSEWriter(w)
	err := h.streamer.Stream(r.Context(), req.Messages, func(c chat.Chunk) error {
		return sse.WriteEvent(c)
	})
	if err != nil {
		h.logger.Info("chat client disconnected", slog.String("error", err.Error()))
	}
}
