package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIClient works with the OpenAI API and anything compatible with it.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float64
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. An empty baseURL uses the public OpenAI endpoint.
func NewOpenAIClient(baseURL, apiKey, model string, temperature float64) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:      &client,
		model:       model,
		temperature: temperature,
	}
}

// ChatCompletionStream sends a streaming chat completion request and calls handler with
// every non-empty text delta. Rate-limited requests are retried twice with backoff.
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, messages []Message, handler StreamHandler) error {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    convertMessages(messages),
		Temperature: openai.Float(c.temperature),
	}

	var stream *ssestream.Stream[openai.ChatCompletionChunk]
	var err error
	for attempt := range 3 {
		stream = c.client.Chat.Completions.NewStreaming(ctx, params)
		err = stream.Err()
		if err == nil {
			break
		}
		if !strings.Contains(err.Error(), "429") || attempt == 2 {
			return fmt.Errorf("chat completion stream: %w", err)
		}
		stream.Close()
		wait := time.Duration(2<<attempt) * time.Second
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("chat completion stream: %w", ctx.Err())
		}
	}
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := handler(delta); err != nil {
			return err
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("streaming: %w", err)
	}
	return nil
}

func convertMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
