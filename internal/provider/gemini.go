package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig configures a Gemini client.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Gemini talks to the Gemini API through the genai SDK. Documents are
// uploaded to the Files API and referenced by URI.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ CacheClient = (*Gemini)(nil)

// NewGemini creates a client bound to cfg.Model. Callers check the API key;
// an empty one is left to the SDK's own environment lookup.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

func (g *Gemini) Upload(ctx context.Context, name, path string) (*Document, error) {
	f, err := g.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: PDFMIMEType})
	if err != nil {
		return nil, err
	}
	slog.Debug("Uploaded document", "provider", "gemini", "document", name, "file", f.Name)

	mime := f.MIMEType
	if mime == "" {
		mime = PDFMIMEType
	}
	return &Document{Name: name, Path: path, MIMEType: mime, ID: f.Name, URI: f.URI}, nil
}

func (g *Gemini) Generate(ctx context.Context, parts []Part) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(toGenaiParts(parts), genai.RoleUser)}

	slog.Debug("Generating content", "provider", "gemini", "model", g.model, "parts", len(parts))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) StartChat(ctx context.Context) (Chat, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return &geminiChat{chat: chat}, nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (c *geminiChat) Send(ctx context.Context, parts []Part) (string, error) {
	ps := toGenaiParts(parts)
	values := make([]genai.Part, len(ps))
	for i, p := range ps {
		values[i] = *p
	}

	resp, err := c.chat.SendMessage(ctx, values...)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) CreateCache(ctx context.Context, docs []*Document, ttl time.Duration, displayName string) (*Cache, error) {
	parts := make([]Part, len(docs))
	for i, d := range docs {
		parts[i] = Doc(d)
	}

	cached, err := g.client.Caches.Create(ctx, g.model, &genai.CreateCachedContentConfig{
		Contents:    []*genai.Content{genai.NewContentFromParts(toGenaiParts(parts), genai.RoleUser)},
		TTL:         ttl,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	return fromCachedContent(cached), nil
}

func (g *Gemini) GenerateFromCache(ctx context.Context, cache *Cache, prompt string) (string, error) {
	model := cache.Model
	if model == "" {
		model = g.model
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		CachedContent: cache.Name,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) DeleteCache(ctx context.Context, name string) error {
	_, err := g.client.Caches.Delete(ctx, name, nil)
	return err
}

func (g *Gemini) ListCaches(ctx context.Context) ([]*Cache, error) {
	var caches []*Cache
	for cached, err := range g.client.Caches.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing caches: %w", err)
		}
		caches = append(caches, fromCachedContent(cached))
	}
	return caches, nil
}

func fromCachedContent(c *genai.CachedContent) *Cache {
	return &Cache{
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Model:       c.Model,
		ExpireTime:  c.ExpireTime,
	}
}

func toGenaiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Document != nil {
			out = append(out, genai.NewPartFromURI(p.Document.URI, p.Document.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return out
}
