package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Anthropic API constants.
const (
	// DefaultAPIURL is the Anthropic messages endpoint.
	DefaultAPIURL = "https://api.anthropic.com/v1/messages"

	// anthropicVersion is the API version header value.
	anthropicVersion = "2023-06-01"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "claude-sonnet-4-20250514"

	// maxTokens is the output budget requested per message.
	maxTokens = 4096
)

// messageRequest is the JSON body for POST /v1/messages.
type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageResponse is the subset of the messages response the client reads.
type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// APIBackend sends prompts to the Anthropic HTTP API.
type APIBackend struct {
	client *http.Client
	apiKey string
	model  string
	url    string
}

// NewAPIBackend creates an API backend using the given key and the default
// model and endpoint.
func NewAPIBackend(apiKey string) *APIBackend {
	return &APIBackend{
		client: &http.Client{},
		apiKey: apiKey,
		model:  DefaultModel,
		url:    DefaultAPIURL,
	}
}

// WithModel overrides the model identifier.
func (b *APIBackend) WithModel(model string) *APIBackend {
	b.model = model
	return b
}

// WithURL overrides the messages endpoint. Used by tests.
func (b *APIBackend) WithURL(url string) *APIBackend {
	b.url = url
	return b
}

// Send posts one user message and returns the first content block's text.
// An empty content list is not an error; it yields an empty string.
func (b *APIBackend) Send(ctx context.Context, prompt, systemPrompt string) (string, error) {
	reqBody := messageRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}

	var msg messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return "", &DecodeError{Err: err}
	}

	if len(msg.Content) == 0 {
		return "", nil
	}
	return msg.Content[0].Text, nil
}
