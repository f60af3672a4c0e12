package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// OpenAI calls an OpenAI-compatible /chat/completions endpoint without
// streaming. One request, one reply.
type OpenAI struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	log     zerolog.Logger
}

// NewOpenAI builds a client against baseURL (e.g. https://api.openai.com/v1).
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration, log zerolog.Logger) *OpenAI {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAI{
		name:    "openai",
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiRequest struct {
	Model     string       `json:"model"`
	Messages  []oaiMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens,omitempty"`
}

type oaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends the system instruction and user prompt and returns the
// model's reply text.
func (o *OpenAI) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	reqBody := oaiRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []oaiMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", o.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", o.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(o.name, resp.StatusCode, body)
	}

	var apiResp oaiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", o.name, err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%s: empty response", o.name)
	}

	o.log.Debug().
		Int("prompt_tokens", apiResp.Usage.PromptTokens).
		Int("completion_tokens", apiResp.Usage.CompletionTokens).
		Msg("completion")

	return apiResp.Choices[0].Message.Content, nil
}
