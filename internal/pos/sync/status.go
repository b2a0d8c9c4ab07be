package sync

import (
	stdsync "sync"
	"time"
)

// Status is the externally visible sync state. Values are copied to
// subscribers, so a listener never observes a torn read.
type Status struct {
	Online          bool
	Syncing         bool
	LastSync        time.Time
	PendingSales    int
	PendingProducts bool
	PendingSettings bool
	Err             string
}

// Patch is a partial status update. Nil fields are left unchanged.
type Patch struct {
	Online          *bool
	Syncing         *bool
	LastSync        *time.Time
	PendingSales    *int
	PendingProducts *bool
	PendingSettings *bool
	Err             *string
}

func ptr[T any](v T) *T { return &v }

// StatusPublisher broadcasts status changes to subscribers. Notification is
// change-only: applying a patch identical to the current state notifies
// nobody.
//
// notifyMu serializes deliveries so concurrent Apply calls reach every
// subscriber in commit order; a stale status can never overwrite a newer
// one. Listeners therefore must not call Subscribe or Apply from inside a
// callback.
type StatusPublisher struct {
	notifyMu stdsync.Mutex

	mu      stdsync.Mutex
	current Status
	nextID  int
	subs    map[int]func(Status)
}

func NewStatusPublisher() *StatusPublisher {
	return &StatusPublisher{subs: map[int]func(Status){}}
}

// Subscribe registers a listener and immediately replays the current status
// to it, so a late subscriber is never blind to current state. The returned
// function unsubscribes.
func (p *StatusPublisher) Subscribe(fn func(Status)) func() {
	p.notifyMu.Lock()

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)
	p.notifyMu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Current returns a copy of the latest status.
func (p *StatusPublisher) Current() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Apply merges the patch into the current status and notifies subscribers
// only if at least one field actually changed. notifyMu is held across the
// merge and the deliveries, so subscribers see updates in commit order.
func (p *StatusPublisher) Apply(patch Patch) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()

	next := p.current
	if patch.Online != nil {
		next.Online = *patch.Online
	}
	if patch.Syncing != nil {
		next.Syncing = *patch.Syncing
	}
	if patch.LastSync != nil {
		next.LastSync = *patch.LastSync
	}
	if patch.PendingSales != nil {
		next.PendingSales = *patch.PendingSales
	}
	if patch.PendingProducts != nil {
		next.PendingProducts = *patch.PendingProducts
	}
	if patch.PendingSettings != nil {
		next.PendingSettings = *patch.PendingSettings
	}
	if patch.Err != nil {
		next.Err = *patch.Err
	}

	if next == p.current {
		p.mu.Unlock()
		return
	}

	p.current = next
	listeners := make([]func(Status), 0, len(p.subs))
	for _, fn := range p.subs {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
