package memory

import (
	"context"
	"sync"

	appoutbox "github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	infraoutbox "github.com/quantum-brackets/45group-sub001/internal/infra/outbox"
)

// Outbox stages event records in memory. Flush hands staged records to an
// optional store so the relay worker can publish them.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	store   infraoutbox.Store
}

func NewOutbox(store infraoutbox.Store) *Outbox {
	return &Outbox{store: store}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	staged := o.records
	o.records = nil
	o.mu.Unlock()

	if o.store == nil {
		return nil
	}
	for _, rec := range staged {
		if err := o.store.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

var _ appoutbox.Outbox = (*Outbox)(nil)
