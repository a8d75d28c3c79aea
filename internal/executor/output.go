package executor

import (
	"bytes"
	"sync"
)

// DefaultMaxOutputBytes caps each captured stream of a run.
const DefaultMaxOutputBytes = 1 << 20

// TruncatedSuffix is appended to a stream that hit its cap.
const TruncatedSuffix = "\n[output truncated]\n"

// LimitedBuffer is an io.Writer that keeps at most Max bytes and silently discards
// the rest, so a program printing in a loop cannot exhaust host memory. Writes never
// fail: returning an error would make the child see EPIPE and change its behaviour.
type LimitedBuffer struct {
	Max int

	mu        sync.Mutex
	buf       bytes.Buffer
	truncated bool
}

func NewLimitedBuffer(limit int) *LimitedBuffer {
	if limit <= 0 {
		limit = DefaultMaxOutputBytes
	}
	return &LimitedBuffer{Max: limit}
}

func (b *LimitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.Max - b.buf.Len()
	switch {
	case room <= 0:
		b.truncated = len(p) > 0 || b.truncated
	case len(p) > room:
		b.buf.Write(p[:room])
		b.truncated = true
	default:
		b.buf.Write(p)
	}
	return len(p), nil
}

// String returns the captured output, marked when it was truncated.
func (b *LimitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.truncated {
		return b.buf.String() + TruncatedSuffix
	}
	return b.buf.String()
}

// Truncated reports whether any output was dropped.
func (b *LimitedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
