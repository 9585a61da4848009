// ABOUTME: Generation client for blocking and streaming completion calls
// ABOUTME: Single attempt per call; timeouts and transport failures yield a static apology
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
)

// Apology is the static degraded response returned when generation fails
const Apology = "I'm sorry, I'm having trouble generating an answer right now. Please try again in a moment."

// Message is a role-tagged prompt message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StreamChunk is one increment of a streamed completion. Done marks the
// end of the sequence; Err reports a mid-stream failure.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// Options configures a generation client
type Options struct {
	APIKey      string
	BaseURL     string // override for tests; empty uses the provider default
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Logger      *log.Logger
}

// Client submits assembled messages to the completion provider.
// It makes exactly one attempt per call; retries belong to the
// fallback handler, not here.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *log.Logger
}

// NewClient creates a generation client
func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
	}
}

// Complete returns the completion text. When the call times out, the
// transport fails, or the response is malformed, it returns the static
// apology together with the error, so the text is always usable.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	text, err := c.Generate(ctx, msgs)
	if err != nil {
		c.logger.Error("completion failed, returning static fallback", "error", err)
		return Apology, err
	}
	return text, nil
}

// Generate performs one blocking completion call and surfaces the error.
// Used by callers that layer their own degradation policy on top.
func (c *Client) Generate(ctx context.Context, msgs []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, c.request(msgs, false))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion returned")
	}
	return text, nil
}

// Stream submits the messages and emits incremental text deltas on the
// returned channel, closing it after a final chunk with Done set. The
// consumer terminates early by cancelling ctx; the underlying connection
// is closed either way.
func (c *Client) Stream(ctx context.Context, msgs []Message) <-chan StreamChunk {
	ch := make(chan StreamChunk)

	go func() {
		defer close(ch)

		streamCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		stream, err := c.client.CreateChatCompletionStream(streamCtx, c.request(msgs, true))
		if err != nil {
			c.logger.Error("stream open failed, returning static fallback", "error", err)
			emit(ctx, ch, StreamChunk{Content: Apology})
			emit(ctx, ch, StreamChunk{Done: true})
			return
		}
		defer stream.Close()

		sent := false
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				emit(ctx, ch, StreamChunk{Done: true})
				return
			}
			if err != nil {
				c.logger.Error("stream receive failed", "error", err)
				if !sent {
					// Nothing delivered yet, degrade to the static fallback
					emit(ctx, ch, StreamChunk{Content: Apology})
					emit(ctx, ch, StreamChunk{Done: true})
					return
				}
				emit(ctx, ch, StreamChunk{Done: true, Err: err})
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !emit(ctx, ch, StreamChunk{Content: delta}) {
				return
			}
			sent = true
		}
	}()

	return ch
}

// emit sends a chunk unless the consumer has gone away
func emit(ctx context.Context, ch chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) request(msgs []Message, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      stream,
	}
}
