package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/smarttask/backend/domain"
	"github.com/smarttask/backend/usecase"
)

const systemPromptFormat = `You are a task parsing assistant. Parse the natural language task input and extract structured information.

IMPORTANT: Today's date is %s (YYYY-MM-DD format).

When parsing dates and times:
- Due date is MANDATORY for all tasks
- Use the current year for all dates
- For relative dates:
  * "today" = current date
  * "tomorrow" = current date + 1 day
  * Days of the week (e.g., "Monday") = next occurrence of that day
- For times:
  * "3pm" = 15:00, "5pm" = 17:00, "2:30pm" = 14:30, "10am" = 10:00
  * If no time is specified, use 12:00 (noon)
- Always return dates in ISO format with UTC timezone (e.g., "2024-03-20T15:00:00Z")
- IMPORTANT: Do not modify the time - use exactly what is specified in the input

Respond with JSON in this exact format: { "title": "string", "assignee": "string or null", "dueDate": "ISO string", "priority": "P1, P2, P3, or P4" }.

Priority levels: P1 (highest/urgent), P2 (high), P3 (medium/default), P4 (low). Default priority is P3.
If no assignee is mentioned, set to null.`

// Config carries the connection settings for the extraction upstream.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls the chat-completions API to turn free text into a structured
// candidate. It performs no semantic validation of the returned fields; that
// belongs to the normalizer.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds an extraction client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &fasthttp.Client{},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the text and the caller's reference date to the oracle and
// returns its candidate guess.
func (c *Client) Extract(ctx context.Context, text string, reference time.Time) (domain.Candidate, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPromptFormat, reference.UTC().Format("2006-01-02"))},
			{Role: "user", Content: fmt.Sprintf("Parse this task: %q", text)},
		},
		Temperature: 0.1,
	}
	payload.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/v1/chat/completions")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBody(body)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstreamUnavailable, "extraction request failed", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("extraction upstream returned non-success status",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return nil, domain.WrapError(domain.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("extraction upstream status %d", resp.StatusCode()),
			fmt.Errorf("%s", resp.Body()))
	}

	var envelope chatResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstreamFormat, "unparseable extraction envelope", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, domain.ErrExtractionFormat
	}

	var candidate domain.Candidate
	if err := json.Unmarshal([]byte(envelope.Choices[0].Message.Content), &candidate); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUpstreamFormat, "extraction content is not a JSON object", err)
	}
	return candidate, nil
}

var _ usecase.Extractor = (*Client)(nil)
