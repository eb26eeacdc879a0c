// Package assistant streams chat completions from an OpenAI-compatible API.
package assistant

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/katyare123/weather-dashboard/internal/config"
	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

// systemInstruction frames every conversation. The weather context line is
// appended as a second system message so the model answers against the
// dashboard's current observation rather than guessing.
const systemInstruction = "You are a friendly weather assistant for a weather dashboard. " +
	"Answer briefly using the provided current conditions. " +
	"If a question is unrelated to weather, say you can only help with weather."

// maxLineBytes bounds a single SSE line; completion deltas are tiny but the
// default scanner buffer (64 KiB) is raised to be safe with long lines.
const maxLineBytes = 1 << 20

// Client streams chat completions. It implements domain.ChatStreamer.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an assistant client. An empty API key produces a client
// that fails fast with ErrAssistantUnavailable without touching the network.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  cfg.AssistantAPIKey,
		baseURL: cfg.AssistantURL,
		model:   cfg.AssistantModel,
		// No client timeout: streams stay open as long as the model talks.
		// Cancellation comes from the request context.
		httpClient: &http.Client{},
		metrics:    metrics,
		logger:     logger,
	}
}

// StreamChat opens a streaming completion and passes text deltas to emit
// strictly in arrival order. Malformed event lines are skipped as noise. A
// mid-stream transport failure truncates the stream silently; whatever text
// was already emitted stands. A missing key or a non-success initial
// response yields ErrAssistantUnavailable.
func (c *Client) StreamChat(ctx context.Context, question, contextSummary string, emit func(delta string) error) error {
	if c.apiKey == "" {
		c.metrics.ChatStreams.WithLabelValues("unavailable").Inc()
		return domain.ErrAssistantUnavailable
	}

	messages := []chatMessage{
		{Role: "system", Content: systemInstruction},
	}
	if contextSummary != "" {
		messages = append(messages, chatMessage{Role: "system", Content: contextSummary})
	}
	messages = append(messages, chatMessage{Role: "user", Content: question})

	payload, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Stream: true})
	if err != nil {
		return fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ChatStreams.WithLabelValues("unavailable").Inc()
		return fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ChatStreams.WithLabelValues("unavailable").Inc()
		return fmt.Errorf("%w: status %d", domain.ErrAssistantUnavailable, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			c.metrics.ChatStreams.WithLabelValues("success").Inc()
			return nil
		}

		var chunk chatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Malformed lines are skippable noise, not fatal.
			c.logger.Debug("skipping malformed stream line", "error", err)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := emit(delta); err != nil {
			return err
		}
	}

	// A scanner error here is a mid-stream transport failure: the caller
	// keeps whatever text accumulated.
	if err := scanner.Err(); err != nil {
		c.logger.Warn("chat stream truncated", "error", err)
		c.metrics.ChatStreams.WithLabelValues("truncated").Inc()
		return nil
	}
	c.metrics.ChatStreams.WithLabelValues("success").Inc()
	return nil
}

// OpenAI-compatible wire types.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}
