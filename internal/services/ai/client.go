// Package ai provides the text-generation and embedding client for riftcoach.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/riftcoach/internal/config"
)

// Client is a client for an OpenAI-compatible chat and embeddings API. It
// implements the generation capability of the report synthesizer and the
// embedding capability of the knowledge retriever.
type Client struct {
	apiKey       string
	apiURL       string
	embeddingURL string
	model        string
	embedModel   string
	timeout      time.Duration
	httpClient   *http.Client
}

// NewClient creates a new AI client.
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		apiKey:       cfg.AIAPIKey,
		apiURL:       cfg.AIAPIURL,
		embeddingURL: cfg.AIEmbeddingURL,
		model:        cfg.AIModel,
		embedModel:   cfg.AIEmbedModel,
		timeout:      cfg.AITimeout,
		httpClient: &http.Client{
			Timeout: cfg.AITimeout,
		},
	}

	if c.embeddingURL == "" && c.apiURL != "" {
		// Conventional layout of OpenAI-compatible providers.
		c.embeddingURL = strings.TrimSuffix(c.apiURL, "/chat/completions") + "/embeddings"
	}

	return c
}

// Generate sends a prompt to the generation service and returns the raw text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("API key not configured")
	}

	payload := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
		TopP:        1,
	}

	respBody, err := c.post(ctx, c.apiURL, payload)
	if err != nil {
		return "", err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return stripFences(chatResp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector for a piece of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	payload := EmbeddingRequest{
		Model: c.embedModel,
		Input: []string{text},
	}

	respBody, err := c.post(ctx, c.embeddingURL, payload)
	if err != nil {
		return nil, err
	}

	var embResp EmbeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return embResp.Data[0].Embedding, nil
}

// post makes an authenticated JSON POST with the client timeout applied.
func (c *Client) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("AI API Error: %d - %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// stripFences removes markdown code fences some models wrap JSON output in.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[7:]
	}
	if strings.HasPrefix(content, "```") {
		content = content[3:]
	}
	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-3]
	}
	return strings.TrimSpace(content)
}
