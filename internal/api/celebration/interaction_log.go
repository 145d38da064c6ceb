package celebration

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Interaction records one round trip to the generative model.
type Interaction struct {
	ID           uuid.UUID
	Endpoint     string
	Prompt       string
	ResponseText string
	ModelUsed    string
	LatencyMs    int
	CreatedAt    time.Time
}

// InteractionLog keeps the most recent model interactions in memory. Nothing
// in this service persists, so a capped ring is all the bookkeeping needed.
type InteractionLog struct {
	mu      sync.Mutex
	cap     int
	records []Interaction
}

func NewInteractionLog(capacity int) *InteractionLog {
	if capacity <= 0 {
		capacity = 128
	}
	return &InteractionLog{cap: capacity}
}

func (l *InteractionLog) Save(in Interaction) uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()

	in.ID = uuid.New()
	in.CreatedAt = time.Now()
	l.records = append(l.records, in)
	if len(l.records) > l.cap {
		l.records = l.records[len(l.records)-l.cap:]
	}
	return in.ID
}

func (l *InteractionLog) Recent(n int) []Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]Interaction, n)
	copy(out, l.records[len(l.records)-n:])
	return out
}
