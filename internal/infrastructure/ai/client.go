// Package ai implements the gateway to the hosted text-generation service.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfworks/greenmaster/internal/core/domain"
	"github.com/turfworks/greenmaster/internal/core/ports"
)

// Config captures the settings for the chat-completions endpoint.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat-completions API with bounded
// exponential backoff on transient failures.
type Client struct {
	cfg     Config
	httpc   *http.Client
	backoff backoffPolicy
	log     zerolog.Logger
}

// NewClient returns a Client with the default retry policy.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: timeout},
		backoff: defaultBackoff(),
		log:     log.With().Str("component", "ai_client").Logger(),
	}
}

var _ ports.Generator = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt (plus context and shape instructions) and returns
// the raw generated text. Structured-shape validation is the caller's step;
// this client only guarantees a non-empty completion.
func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: buildMessages(req),
	})
	if err != nil {
		return "", fmt.Errorf("ai request marshal: %w", err)
	}

	var content string
	err = c.backoff.do(ctx, c.log, func() (bool, error) {
		content, err = c.post(ctx, body)
		if err == nil {
			return false, nil
		}
		var se statusError
		if errors.As(err, &se) {
			// retry allow-list: rate limit and server-side errors only
			return se.code == http.StatusTooManyRequests || se.code >= 500, err
		}
		return false, err
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ai response read: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError{code: resp.StatusCode, body: truncate(string(data), 300)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadAIResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrBadAIResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}

// buildMessages assembles the chat payload: shape instructions as the system
// message, then serialized context records, then the user prompt.
func buildMessages(req ports.GenerateRequest) []chatMessage {
	var msgs []chatMessage
	if req.Shape != nil {
		msgs = append(msgs, chatMessage{Role: "system", Content: shapeInstruction(req.Shape)})
	}
	if req.Context != "" {
		msgs = append(msgs, chatMessage{Role: "user", Content: "Reference records:\n" + req.Context})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Prompt})
	return msgs
}

func shapeInstruction(shape *ports.Shape) string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object and nothing else. Fields:\n")
	for _, f := range shape.Fields {
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(" (")
		b.WriteString(string(f.Type))
		if f.Required {
			b.WriteString(", required")
		} else {
			b.WriteString(", optional")
		}
		if len(f.Enum) > 0 {
			b.WriteString(", one of: ")
			b.WriteString(strings.Join(f.Enum, ", "))
		}
		b.WriteString(")\n")
	}
	return b.String()
}

// statusError carries a non-200 response for retry classification.
type statusError struct {
	code int
	body string
}

func (e statusError) Error() string {
	return fmt.Sprintf("model request failed: status %d: %s", e.code, e.body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
