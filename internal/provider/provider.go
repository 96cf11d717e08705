// Package provider uploads trial documents to an LLM provider and sends
// analysis requests to it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

//go:generate go run go.uber.org/mock/mockgen -destination=providermock/mock_provider.go -package=providermock . Client,Chat,CacheClient

// PDFMIMEType is the media type every trial document is sent as.
const PDFMIMEType = "application/pdf"

// ErrMissingAPIKey is matched by *MissingAPIKeyError.
var ErrMissingAPIKey = errors.New("missing API key")

// MissingAPIKeyError reports a credential that was checked before any
// request was made.
type MissingAPIKeyError struct {
	Env string
}

func (e *MissingAPIKeyError) Error() string {
	return fmt.Sprintf("Error: %[1]s not found in environment\nPlease set it in your .env file or export it:\n  export %[1]s=your_key_here", e.Env)
}

func (e *MissingAPIKeyError) Is(target error) bool {
	return target == ErrMissingAPIKey
}

// Document is a provider-side handle for one uploaded file. Which fields
// are set depends on the provider.
type Document struct {
	// Name is the logical document name: transcript, guidebook or playbook.
	Name     string
	Path     string
	MIMEType string

	// ID and URI identify a file stored on the provider.
	ID  string
	URI string

	// Data holds the file bytes for providers that receive documents inline.
	Data []byte
}

// Part is one element of a request: either text or a document.
type Part struct {
	Text     string
	Document *Document
}

// Text returns a text part.
func Text(s string) Part {
	return Part{Text: s}
}

// Doc returns a document part.
func Doc(d *Document) Part {
	return Part{Document: d}
}

// Client sends requests to one model of one provider.
type Client interface {
	// Upload makes the file at path available for later requests.
	Upload(ctx context.Context, name, path string) (*Document, error)

	// Generate sends a single stateless request and returns the response text.
	Generate(ctx context.Context, parts []Part) (string, error)

	// StartChat opens a conversation whose history is kept across Send calls.
	StartChat(ctx context.Context) (Chat, error)
}

// Chat is a conversation with a model.
type Chat interface {
	Send(ctx context.Context, parts []Part) (string, error)
}

// Cache is a provider-side cache of documents with a time-to-live.
type Cache struct {
	Name        string
	DisplayName string
	Model       string
	ExpireTime  time.Time
}

// CacheClient is a Client that can cache documents on the provider.
type CacheClient interface {
	Client

	CreateCache(ctx context.Context, docs []*Document, ttl time.Duration, displayName string) (*Cache, error)
	GenerateFromCache(ctx context.Context, cache *Cache, prompt string) (string, error)
	DeleteCache(ctx context.Context, name string) error
	ListCaches(ctx context.Context) ([]*Cache, error)
}

// UploadAll uploads every named document concurrently. The first failure
// cancels the remaining uploads and is returned.
func UploadAll(ctx context.Context, c Client, paths map[string]string) (map[string]*Document, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	docs := make(map[string]*Document, len(paths))

	for name, path := range paths {
		g.Go(func() error {
			doc, err := c.Upload(ctx, name, path)
			if err != nil {
				return fmt.Errorf("uploading %s: %w", name, err)
			}
			mu.Lock()
			docs[name] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
