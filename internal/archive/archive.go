// Package archive keeps the complete raw provider responses of a run in a
// zstd-compressed JSON lines file next to its artifact.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spboyer/trialscope/internal/models"
)

// Suffix is appended to the artifact path to name its archive.
const Suffix = ".raw.jsonl.zst"

// Record is one line of an archive.
type Record struct {
	Pass       int    `json:"pass,omitempty"`
	Chunk      int    `json:"chunk,omitempty"`
	ChunkRange string `json:"chunkRange,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Error      string `json:"error,omitempty"`
	Raw        string `json:"raw"`
}

// Path returns the archive path for an artifact.
func Path(artifact string) string {
	return artifact + Suffix
}

// Write archives the raw response of every outcome, in pass order.
func Write(artifact string, outcomes []models.PassOutcome) (string, error) {
	path := Path(artifact)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close() //nolint:errcheck

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return "", err
	}

	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)
	for _, o := range outcomes {
		rec := Record{
			Pass:       o.Detail.Pass,
			Chunk:      o.Detail.Chunk,
			ChunkRange: o.Detail.ChunkRange,
			Theme:      o.Detail.Theme,
			Error:      o.Detail.Error,
			Raw:        o.Raw,
		}
		if err := enc.Encode(rec); err != nil {
			zw.Close() //nolint:errcheck
			return "", fmt.Errorf("write archive: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return path, f.Close()
}

// Read decodes every record of an archive.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var records []Record
	dec := json.NewDecoder(zr)
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", path, err)
		}
		records = append(records, rec)
	}
}
