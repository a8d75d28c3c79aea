package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/llm"
	"github.com/sakif/tdd-playground/internal/metrics"
)

// Emitter delivers one chunk to the client. An error means the client is gone.
type Emitter func(Chunk) error

// Streamer runs one LLM completion per request and emits its chunks.
type Streamer struct {
	client llm.Client
	logger *slog.Logger
}

// NewStreamer creates a Streamer.
func NewStreamer(client llm.Client, logger *slog.Logger) *Streamer {
	return &Streamer{client: client, logger: logger}
}

// ValidateMessages rejects requests the LLM should never see.
func ValidateMessages(messages []llm.Message) error {
	if len(messages) == 0 {
		return apperror.ValidationFailed("messages", "No messages provided")
	}
	for _, m := range messages {
		if !m.Role.Valid() {
			return apperror.ValidationFailed("role", "Invalid message role: "+string(m.Role))
		}
	}
	return nil
}

// Stream emits start, the parsed answer and a terminal done or error chunk.
//
// Failures after start are reported in-band as an error chunk; Stream only returns an
// error when emit itself fails.
func (s *Streamer) Stream(ctx context.Context, messages []llm.Message, emit Emitter) error {
	metrics.ChatStreamsActive.Inc()
	defer metrics.ChatStreamsActive.Dec()

	if err := emit(Start()); err != nil {
		return err
	}

	parser := NewFenceParser()
	index := 0
	var emitErr error

	err := s.client.ChatCompletionStream(ctx, messages, func(delta string) error {
		for _, c := range parser.Feed(delta, index) {
			if err := emit(c); err != nil {
				emitErr = err
				return err
			}
		}
		index++
		return nil
	})
	if emitErr != nil {
		return emitErr
	}

	for _, c := range parser.Flush(index) {
		if err := emit(c); err != nil {
			return err
		}
	}

	switch {
	case err == nil:
		return emit(Done(FinishStop))
	case errors.Is(err, context.Canceled):
		s.logger.Info("chat stream aborted by client")
		return emit(Done(FinishUserAbort))
	default:
		s.logger.Error("error in stream response", slog.String("error", err.Error()))
		return emit(Error(strings.TrimSpace(err.Error()), ""))
	}
}
