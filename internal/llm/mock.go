package llm

import (
	"context"
	"time"
)

// MockResponse is what the mock client replays, one delta at a time.
var MockResponse = []string{
	"Here's a concise Python implementation for the `add` function:\n\n",
	"```python\n",
	"def add(num1, num2):\n",
	"    return num1 + num2\n",
	"```\n\n",
	"You can use this function as follows:\n\n",
	"```python\n",
	"result = add(3, 5)\n",
	"print(result)  # Output: 8\n",
	"```",
}

// MockClient replays canned deltas with a delay between them.
type MockClient struct {
	Deltas []string
	Delay  time.Duration
}

var _ Client = (*MockClient)(nil)

// NewMockClient replays MockResponse with a 100ms delay.
func NewMockClient() *MockClient {
	return &MockClient{Deltas: MockResponse, Delay: 100 * time.Millisecond}
}

// ChatCompletionStream ignores the messages.
func (m *MockClient) ChatCompletionStream(ctx context.Context, _ []Message, handler StreamHandler) error {
	for _, d := range m.Deltas {
		if m.Delay > 0 {
			select {
			case <-time.After(m.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := handler(d); err != nil {
			return err
		}
	}
	return nil
}
