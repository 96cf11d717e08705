package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/spboyer/trialscope/internal/models"
)

// ChunkedStrategy splits an estimated session length into fixed windows and
// runs one independent pass per window. The transcript is not actually
// split: each request carries the full transcript and tells the model which
// window to report on.
type ChunkedStrategy struct {
	ChunkMinutes     int
	EstimatedMinutes int
}

// Passes returns ceil(EstimatedMinutes / ChunkMinutes).
func (c *ChunkedStrategy) Passes() int {
	return (c.EstimatedMinutes + c.ChunkMinutes - 1) / c.ChunkMinutes
}

func (c *ChunkedStrategy) Run(ctx context.Context, s *Session) ([]models.PassOutcome, error) {
	docs, err := s.upload(ctx, DocGuidebook, DocPlaybook, DocTranscript)
	if err != nil {
		return nil, err
	}

	total := c.Passes()
	var outcomes []models.PassOutcome
	for chunk := 1; chunk <= total; chunk++ {
		window := ChunkRange(chunk, c.ChunkMinutes)
		s.passStart(chunk, total, window)
		started := time.Now()

		text := chunkContext(window, chunk, total) + s.Prompt.Text
		raw, err := s.Client.Generate(ctx, documentParts(docs, text, true))
		if err != nil {
			return outcomes, fmt.Errorf("chunk %d: %w", chunk, err)
		}

		o := parse(models.PassDetail{Chunk: chunk, ChunkRange: window}, raw, func(is models.Issue) {
			is[models.KeyChunkNumber] = chunk
			is[models.KeyChunkRange] = window
		})
		outcomes = append(outcomes, o)
		s.passDone(chunk, total, window, o, started)
	}
	return outcomes, nil
}

// ChunkRange formats the window of a 1-based chunk, e.g. "10:00 - 20:00".
func ChunkRange(chunk, minutes int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", (chunk-1)*minutes, chunk*minutes)
}

func chunkContext(window string, chunk, total int) string {
	position := "a MIDDLE"
	switch {
	case chunk == 1:
		position = "the FIRST"
	case chunk == total:
		position = "the LAST"
	}

	return fmt.Sprintf(`
IMPORTANT CONTEXT:
- You are analyzing a SEGMENT of the full trial transcript
- This segment covers: %[1]s
- This is %[2]s segment of the trial

Guidelines for chunk analysis:
- Focus ONLY on issues that occur within this time segment
- If an issue spans across chunk boundaries, only report it if the problematic moment is within this chunk
- Provide timestamps as they appear in the transcript (they will be within the %[1]s range)
- Consider that some context may be missing (earlier or later conversation)

`, window, position)
}
