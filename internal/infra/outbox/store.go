package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	appoutbox "github.com/quantum-brackets/45group-sub001/internal/app/outbox"
)

const (
	stateNew     = "NEW"
	stateClaimed = "CLAIMED"
	stateSent    = "SENT"
	stateFailed  = "FAILED"
)

// EventDocument is the persisted shape of a staged event.
type EventDocument struct {
	ID          string            `bson:"_id"`
	Name        string            `bson:"name"`
	Payload     []byte            `bson:"payload"`
	OccurredAt  time.Time         `bson:"occurred_at"`
	Aggregate   string            `bson:"aggregate"`
	Headers     map[string]string `bson:"headers"`
	State       string            `bson:"state"`
	Attempts    int               `bson:"attempts"`
	NextAttempt time.Time         `bson:"next_attempt_at"`
	ClaimedBy   string            `bson:"claimed_by"`
	ClaimedAt   time.Time         `bson:"claimed_at"`
	SentAt      time.Time         `bson:"sent_at"`
	LastError   string            `bson:"last_error"`
}

// Store persists staged events until the relay worker publishes them.
type Store interface {
	Append(ctx context.Context, record appoutbox.EventRecord) error
	Claim(ctx context.Context, workerID string) (*EventDocument, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

// MemoryStore keeps staged events in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*EventDocument
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*EventDocument)}
}

func (s *MemoryStore) Append(ctx context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.items[record.ID] = &EventDocument{
		ID:          record.ID,
		Name:        record.Name,
		Payload:     record.Payload,
		OccurredAt:  record.OccurredAt,
		Aggregate:   record.Aggregate,
		Headers:     record.Headers,
		State:       stateNew,
		NextAttempt: now,
	}
	return nil
}

func (s *MemoryStore) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	candidates := make([]*EventDocument, 0)
	for _, doc := range s.items {
		if (doc.State == stateNew || doc.State == stateFailed) && !doc.NextAttempt.After(now) {
			candidates = append(candidates, doc)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].OccurredAt.Before(candidates[j].OccurredAt)
	})
	doc := candidates[0]
	doc.State = stateClaimed
	doc.ClaimedBy = workerID
	doc.ClaimedAt = now
	copyDoc := *doc
	return &copyDoc, nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.items[id]; ok {
		doc.State = stateSent
		doc.SentAt = time.Now().UTC()
	}
	return nil
}

func (s *MemoryStore) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.items[id]; ok {
		doc.State = stateFailed
		doc.NextAttempt = next
		doc.LastError = errMsg
		doc.Attempts++
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
