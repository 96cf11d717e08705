package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Header http.Header
	Body   claudeRequest
}

func newClaudeServer(t *testing.T, replies ...string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)

		var body claudeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		requests = append(requests, recordedRequest{Header: r.Header.Clone(), Body: body})

		reply := replies[len(requests)-1]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"content":     []map[string]string{{"type": "text", "text": reply}},
			"stop_reason": "end_turn",
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestNewClaude_MissingKey(t *testing.T) {
	_, err := NewClaude(ClaudeConfig{APIKeyEnv: "MY_KEY"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "MY_KEY not found in environment")
}

func TestClaude_ChatKeepsHistory(t *testing.T) {
	srv, requests := newClaudeServer(t, `[{"type":"X"}]`, "[]")

	c, err := NewClaude(ClaudeConfig{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "claude-sonnet-4-5-20250929", MaxTokens: 16000})
	require.NoError(t, err)

	pdf := filepath.Join(t.TempDir(), "guidebook.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 guide"), 0o644))
	doc, err := c.Upload(context.Background(), "guidebook", pdf)
	require.NoError(t, err)
	assert.Equal(t, PDFMIMEType, doc.MIMEType)

	chat, err := c.StartChat(context.Background())
	require.NoError(t, err)

	out, err := chat.Send(context.Background(), []Part{Doc(doc), Text("Find issues.")})
	require.NoError(t, err)
	assert.Equal(t, `[{"type":"X"}]`, out)

	out, err = chat.Send(context.Background(), []Part{Text("Continue.")})
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	require.Len(t, *requests, 2)
	first := (*requests)[0]
	assert.Equal(t, "sk-test", first.Header.Get("x-api-key"))
	assert.Equal(t, AnthropicVersion, first.Header.Get("anthropic-version"))
	assert.Equal(t, 16000, first.Body.MaxTokens)
	assert.Equal(t, "claude-sonnet-4-5-20250929", first.Body.Model)
	require.Len(t, first.Body.Messages, 1)

	blocks := first.Body.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "document", blocks[0].Type)
	assert.Equal(t, "base64", blocks[0].Source.Type)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 guide")), blocks[0].Source.Data)
	assert.Equal(t, "ephemeral", blocks[0].CacheControl.Type)
	assert.Equal(t, "Find issues.", blocks[1].Text)

	second := (*requests)[1].Body.Messages
	require.Len(t, second, 3)
	assert.Equal(t, "user", second[0].Role)
	assert.Equal(t, "assistant", second[1].Role)
	assert.Equal(t, `[{"type":"X"}]`, second[1].Content[0].Text)
	assert.Equal(t, "Continue.", second[2].Content[0].Text)
}

func TestClaude_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"document too large"}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := NewClaude(ClaudeConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", MaxTokens: 10})
	require.NoError(t, err)

	chat, err := c.StartChat(context.Background())
	require.NoError(t, err)
	_, err = chat.Send(context.Background(), []Part{Text("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "document too large")

	// A failed turn is not kept in the conversation.
	assert.Empty(t, chat.(*claudeChat).history)
}

func TestClaude_Generate(t *testing.T) {
	srv, requests := newClaudeServer(t, "```json\n[]\n```")

	c, err := NewClaude(ClaudeConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", MaxTokens: 10})
	require.NoError(t, err)

	out, err := c.Generate(context.Background(), []Part{Text("one-shot")})
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", out)
	require.Len(t, *requests, 1)
	assert.Len(t, (*requests)[0].Body.Messages, 1)
}
