package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spboyer/trialscope/internal/provider"
	"github.com/spboyer/trialscope/internal/provider/providermock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUploadAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := providermock.NewMockClient(ctrl)

	paths := map[string]string{
		"transcript": "/trials/demo-g1/transcript.pdf",
		"guidebook":  "/assets/guidebook.pdf",
		"playbook":   "/assets/playbook.pdf",
	}
	for name, path := range paths {
		client.EXPECT().Upload(gomock.Any(), name, path).Return(&provider.Document{Name: name, Path: path, URI: "files/" + name}, nil)
	}

	docs, err := provider.UploadAll(context.Background(), client, paths)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for name := range paths {
		assert.Equal(t, "files/"+name, docs[name].URI)
	}
}

func TestUploadAll_FirstErrorWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := providermock.NewMockClient(ctrl)

	boom := errors.New("quota exceeded")
	client.EXPECT().Upload(gomock.Any(), "transcript", gomock.Any()).Return(nil, boom)
	client.EXPECT().Upload(gomock.Any(), "guidebook", gomock.Any()).Return(&provider.Document{Name: "guidebook"}, nil).AnyTimes()

	_, err := provider.UploadAll(context.Background(), client, map[string]string{
		"transcript": "t.pdf",
		"guidebook":  "g.pdf",
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "uploading transcript")
}

func TestMissingAPIKeyError(t *testing.T) {
	err := error(&provider.MissingAPIKeyError{Env: "ANTHROPIC_API_KEY"})
	assert.ErrorIs(t, err, provider.ErrMissingAPIKey)
	assert.Equal(t,
		"Error: ANTHROPIC_API_KEY not found in environment\nPlease set it in your .env file or export it:\n  export ANTHROPIC_API_KEY=your_key_here",
		err.Error())
}
