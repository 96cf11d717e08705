// Package publish copies analysis artifacts to Azure Blob Storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// blobUploader is the part of *azblob.Client the publisher needs.
type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// Publisher uploads artifacts to one container.
type Publisher struct {
	container string
	client    blobUploader
}

// New creates a publisher for accountURL using DefaultAzureCredential.
func New(accountURL, container string) (*Publisher, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure credential: %w", err)
	}
	return NewWithCredential(accountURL, container, cred)
}

// NewWithCredential creates a publisher that authenticates with cred.
func NewWithCredential(accountURL, container string, cred azcore.TokenCredential) (*Publisher, error) {
	if accountURL == "" || container == "" {
		return nil, errors.New("publish: account_url and container are required")
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return &Publisher{container: container, client: client}, nil
}

// BlobName returns the blob an artifact of trialID is stored under.
func BlobName(trialID, artifact string) string {
	return path.Join(trialID, filepath.Base(artifact))
}

// Publish uploads the file at artifact and returns its blob name.
func (p *Publisher) Publish(ctx context.Context, trialID, artifact string) (string, error) {
	data, err := os.ReadFile(artifact)
	if err != nil {
		return "", err
	}

	name := BlobName(trialID, artifact)
	contentType := "application/json"
	if filepath.Ext(artifact) == ".zst" {
		contentType = "application/zstd"
	}

	_, err = p.client.UploadBuffer(ctx, p.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
		Metadata:    map[string]*string{"trial": to.Ptr(trialID)},
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	slog.Debug("Published artifact", "container", p.container, "blob", name, "bytes", len(data))
	return name, nil
}
