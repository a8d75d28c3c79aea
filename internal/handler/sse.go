package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sseWriter sends server-sent events as bare "data:" lines, flushing after each one.
type sseWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	return &sseWriter{w: w, rc: http.NewResponseController(w)}
}

// start sends the stream headers and lifts the server write timeout, which would
// otherwise cut off long answers.
func (s *sseWriter) start() {
	if s.started {
		return
	}
	s.started = true

	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)

	// Not every writer supports deadlines (httptest recorders don't); that is fine.
	_ = s.rc.SetWriteDeadline(time.Time{})
}

// WriteEvent marshals v as one event.
func (s *sseWriter) WriteEvent(v any) error {
	s.start()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}
