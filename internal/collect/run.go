package collect

import (
	"time"

	"github.com/google/uuid"
)

// Run records what happened during one batch fetch so the caller can report
// partial failures without treating them as fatal.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Chunks       int
	ChunksFailed int
	DocsSeen     int
	DocsMatched  int
	DocsSkipped  int
	Errors       []string
}

func newRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

func (r *Run) finish() {
	r.FinishedAt = time.Now()
}
