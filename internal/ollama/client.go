// File: internal/ollama/client.go
package ollama

import (
	"context"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
	"github.com/claudiorodrigues01/bycrr-ai/internal/config"
	"github.com/claudiorodrigues01/bycrr-ai/internal/session"
)

const requestTimeout = 30 * time.Second

// historyWindow bounds how many prior conversation entries are sent with each
// decision request; older entries stay on disk only.
const historyWindow = 5

// ErrServiceUnavailable reports a network-level failure talking to the
// inference service. The caller must fall back to the offline planner.
var ErrServiceUnavailable = errors.New("ollama: service unavailable")

// Client formats conversation context into a chat request against the
// inference service and parses its JSON-shaped reply into a decision.
type Client struct {
	logger  *zap.Logger
	http    *resty.Client
	chatURL string
	model   string
	monitor *Monitor
}

// NewClient returns a decision client for the configured chat endpoint.
func NewClient(cfg config.AgentConfig, monitor *Monitor, logger *zap.Logger) *Client {
	return &Client{
		logger:  logger.Named("ollama_client"),
		http:    resty.New().SetTimeout(requestTimeout),
		chatURL: cfg.OllamaURL,
		model:   CanonicalModel(cfg.LLMModel),
		monitor: monitor,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	// Fallback field for /generate-style replies.
	Response string `json:"response"`
}

// Decide posts the bounded context (system prompt, the last entries of the
// conversation, the current task) to the chat endpoint and returns the raw
// decision JSON. Malformed replies degrade to a default answer decision; a
// transport failure marks the service unavailable and returns
// ErrServiceUnavailable so the engine can fall back offline.
func (c *Client) Decide(ctx context.Context, history []session.Message, task string) (string, error) {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: task})

	var reply chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{Model: c.model, Messages: messages, Format: "json", Stream: false}).
		SetResult(&reply).
		Post(c.chatURL)
	if err != nil || resp.StatusCode() >= 500 {
		c.logger.Warn("Inference service unreachable; switching to offline planning.", zap.Error(err))
		c.monitor.MarkUnavailable()
		return "", ErrServiceUnavailable
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn("Inference service returned an error status.",
			zap.Int("status", resp.StatusCode()))
		c.monitor.MarkUnavailable()
		return "", ErrServiceUnavailable
	}

	content := reply.Message.Content
	if content == "" {
		content = reply.Response
	}
	if content == "" {
		return defaultAnswer(
			"O modelo não retornou conteúdo.",
			"Não recebi resposta do modelo. Tente novamente em alguns segundos.",
		), nil
	}

	// Tolerate prose or code fences around the JSON object.
	if candidate := action.ExtractObject(content); candidate != "" {
		return candidate, nil
	}
	c.logger.Warn("Inference reply carried no parseable decision object.")
	return defaultAnswer(
		"A resposta do modelo não foi um JSON válido.",
		"Recebi uma resposta inesperada do modelo de linguagem. Tente novamente.",
	), nil
}

// defaultAnswer builds a terminal answer decision used when the service reply
// cannot be interpreted.
func defaultAnswer(thought, answer string) string {
	d := action.Decision{
		Thought: thought,
		Kind:    action.KindAnswer,
		Params:  action.Params{"answer": answer},
	}
	return d.Encode()
}
