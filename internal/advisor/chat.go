package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxChatResponse = 1 << 20

// ChatBackend posts questions to an HTTP chat service that takes
// {"query", "profile"} and answers with {"answer": ...}.
type ChatBackend struct {
	URL    string
	Client *http.Client
}

// NewChatBackend creates a chat advisor with optional proxy support.
func NewChatBackend(url string, timeout time.Duration, proxyURL string) *ChatBackend {
	return &ChatBackend{URL: url, Client: newHTTPClient(timeout, proxyURL)}
}

func (c *ChatBackend) Name() string { return "chat" }

type chatRequest struct {
	Query   string `json:"query"`
	Profile string `json:"profile"`
}

func (c *ChatBackend) Advise(ctx context.Context, req Request) (string, error) {
	query := req.Question
	if req.Scenario != nil {
		query = BuildPrompt(req)
	}
	body, err := json.Marshal(chatRequest{Query: query, Profile: ProfileSummary(req.Business)})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChatResponse))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat service error: status %d, body: %s", resp.StatusCode, string(data))
	}
	return decodeAnswer(data)
}

// decodeAnswer accepts both {"answer": "text"} and {"answer": {"text": "..."}}.
func decodeAnswer(data []byte) (string, error) {
	var envelope struct {
		Answer json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(envelope.Answer) == 0 {
		return "", fmt.Errorf("chat response has no answer")
	}

	var text string
	if err := json.Unmarshal(envelope.Answer, &text); err == nil {
		return text, nil
	}
	var nested struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(envelope.Answer, &nested); err != nil {
		return "", fmt.Errorf("decode chat answer: %w", err)
	}
	return nested.Text, nil
}
