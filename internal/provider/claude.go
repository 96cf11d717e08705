package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// AnthropicVersion is sent in the anthropic-version header.
const AnthropicVersion = "2023-06-01"

// ClaudeConfig configures a Claude client.
type ClaudeConfig struct {
	APIKey string
	// APIKeyEnv names the variable APIKey was read from, for diagnostics.
	APIKeyEnv string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Claude talks to the Anthropic Messages API. It has no file store: Upload
// reads the document locally and every request carries it inline.
type Claude struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

var _ Client = (*Claude)(nil)

// NewClaude creates a client bound to cfg.Model. The API key is checked up
// front so a missing credential fails before any document is read.
func NewClaude(cfg ClaudeConfig) (*Claude, error) {
	if cfg.APIKey == "" {
		env := cfg.APIKeyEnv
		if env == "" {
			env = "ANTHROPIC_API_KEY"
		}
		return nil, &MissingAPIKeyError{Env: env}
	}
	return &Claude{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Claude) Upload(_ context.Context, name, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Path: path, MIMEType: PDFMIMEType, Data: data}, nil
}

func (c *Claude) Generate(ctx context.Context, parts []Part) (string, error) {
	return c.send(ctx, []claudeMessage{{Role: "user", Content: toClaudeBlocks(parts)}})
}

func (c *Claude) StartChat(_ context.Context) (Chat, error) {
	return &claudeChat{client: c}, nil
}

// claudeChat keeps the conversation locally and re-sends all of it with
// every turn.
type claudeChat struct {
	client  *Claude
	history []claudeMessage
}

func (ch *claudeChat) Send(ctx context.Context, parts []Part) (string, error) {
	messages := append(ch.history, claudeMessage{Role: "user", Content: toClaudeBlocks(parts)})

	text, err := ch.client.send(ctx, messages)
	if err != nil {
		return "", err
	}

	ch.history = append(messages, claudeMessage{
		Role:    "assistant",
		Content: []claudeBlock{{Type: "text", Text: text}},
	})
	return text, nil
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type         string             `json:"type"`
	Text         string             `json:"text,omitempty"`
	Source       *claudeSource      `json:"source,omitempty"`
	CacheControl *claudeCacheMarker `json:"cache_control,omitempty"`
}

type claudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeCacheMarker struct {
	Type string `json:"type"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func toClaudeBlocks(parts []Part) []claudeBlock {
	blocks := make([]claudeBlock, 0, len(parts))
	for _, p := range parts {
		if d := p.Document; d != nil {
			blocks = append(blocks, claudeBlock{
				Type: "document",
				Source: &claudeSource{
					Type:      "base64",
					MediaType: d.MIMEType,
					Data:      base64.StdEncoding.EncodeToString(d.Data),
				},
				CacheControl: &claudeCacheMarker{Type: "ephemeral"},
			})
			continue
		}
		blocks = append(blocks, claudeBlock{Type: "text", Text: p.Text})
	}
	return blocks
}

func (c *Claude) send(ctx context.Context, messages []claudeMessage) (string, error) {
	body, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", AnthropicVersion)

	start := time.Now()
	slog.Debug("Sending request", "provider", "anthropic", "model", c.model, "messages", len(messages), "bytes", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed claudeResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("anthropic API error (status %d): %s: %s", resp.StatusCode, parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	slog.Debug("Received response",
		"provider", "anthropic",
		"duration", time.Since(start),
		"stop_reason", parsed.StopReason,
		"input_tokens", parsed.Usage.InputTokens,
		"output_tokens", parsed.Usage.OutputTokens)
	return text.String(), nil
}
