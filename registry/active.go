// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"fmt"
	"sync"

	"github.com/luxfi/ids"

	"github.com/luxfi/intents"
)

// Entry is what the active-intent registry remembers about a live intent.
type Entry struct {
	Requester intents.Address
	Expiry    uint64
}

// ActiveIntents tracks which intents are live so off-chain services can
// enumerate them and anyone can garbage-collect them after expiry. Mutation
// goes through the Recorder capability; the registry itself only exposes
// reads and the expiry-gated cleanup.
type ActiveIntents struct {
	mu      sync.RWMutex
	entries map[ids.ID]Entry
}

// Recorder is the write capability over an ActiveIntents registry. It is
// handed to the intent store and the flow orchestrators only.
type Recorder struct {
	r *ActiveIntents
}

// NewActiveIntents returns an empty registry and its write capability.
func NewActiveIntents() (*ActiveIntents, *Recorder) {
	r := &ActiveIntents{entries: make(map[ids.ID]Entry)}
	return r, &Recorder{r: r}
}

// Record implements intents.IntentTracker.
func (w *Recorder) Record(id ids.ID, requester intents.Address, expiry uint64) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	w.r.entries[id] = Entry{Requester: requester, Expiry: expiry}
}

// Remove implements intents.IntentTracker.
func (w *Recorder) Remove(id ids.ID) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	delete(w.r.entries, id)
}

// Get returns the entry for an intent id.
func (a *ActiveIntents) Get(id ids.ID) (Entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	entry, ok := a.entries[id]
	return entry, ok
}

// Len returns the number of live entries.
func (a *ActiveIntents) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Cleanup removes an expired entry. Anyone may call it, but removal before
// expiry is rejected so a live intent cannot be griefed out of discovery.
func (a *ActiveIntents) Cleanup(id ids.ID, now uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", intents.ErrUnknownIntent, id)
	}
	if now <= entry.Expiry {
		return intents.ErrNotExpired
	}
	delete(a.entries, id)
	return nil
}
