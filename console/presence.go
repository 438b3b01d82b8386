package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"finconsole/backend"
	"finconsole/models"
)

// ErrStaleRefresh is returned when the cache was rescoped while a refresh ran.
var ErrStaleRefresh = errors.New("presence refresh discarded: cache scope changed")

// AccountFetcher looks up an owner's sub-account of one kind.
type AccountFetcher interface {
	GetAccount(ctx context.Context, kind models.AccountKind, ownerID string) (models.SubAccount, error)
}

// Entry is the cached answer to "does this owner have a sub-account".
type Entry struct {
	Present bool               `json:"present"`
	Account *models.SubAccount `json:"account,omitempty"`
}

// PresenceCache maps owner IDs to presence entries for one account kind and
// one branch scope. Entries mirror backend truth and may be stale between
// refreshes.
type PresenceCache struct {
	kind    models.AccountKind
	fetcher AccountFetcher
	limit   int
	warn    func(string)

	mu      sync.RWMutex
	scope   string
	gen     uint64
	version uint64
	entries map[string]Entry
	// patched holds the version at which each key was last patched.
	patched map[string]uint64
}

// NewPresenceCache builds an empty cache. limit bounds concurrent lookups
// during Refresh; warn receives non-fatal lookup failures.
func NewPresenceCache(kind models.AccountKind, fetcher AccountFetcher, limit int, warn func(string)) *PresenceCache {
	if limit <= 0 {
		limit = 8
	}
	if warn == nil {
		warn = func(string) {}
	}
	return &PresenceCache{
		kind:    kind,
		fetcher: fetcher,
		limit:   limit,
		warn:    warn,
		entries: map[string]Entry{},
		patched: map[string]uint64{},
	}
}

func (c *PresenceCache) Kind() models.AccountKind {
	return c.kind
}

// Refresh queries every owner concurrently and replaces the whole map once
// all lookups settle. A 404 records absence; any other failure also records
// absence and raises one warning for the batch. Keys patched while the
// lookups ran keep their patched entry.
func (c *PresenceCache) Refresh(ctx context.Context, owners []models.Owner) error {
	c.mu.RLock()
	gen, started := c.gen, c.version
	c.mu.RUnlock()

	results := make([]Entry, len(owners))
	var failedMu sync.Mutex
	var failed []string

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i, owner := range owners {
		i, ownerID := i, owner.UserID.String()
		g.Go(func() error {
			account, err := c.fetcher.GetAccount(ctx, c.kind, ownerID)
			switch {
			case err == nil:
				results[i] = Entry{Present: true, Account: &account}
			case errors.Is(err, backend.ErrNotFound):
				results[i] = Entry{}
			default:
				results[i] = Entry{}
				if ctx.Err() == nil {
					failedMu.Lock()
					failed = append(failed, ownerID)
					failedMu.Unlock()
					log.Printf("[PRESENCE] %s lookup for owner %s failed: %v", c.kind, ownerID, err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	entries := make(map[string]Entry, len(owners))
	for i, owner := range owners {
		entries[owner.UserID.String()] = results[i]
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		log.Printf("[PRESENCE] Discarding %s refresh for stale scope", c.kind)
		return ErrStaleRefresh
	}
	for ownerID, at := range c.patched {
		if at > started {
			if e, ok := c.entries[ownerID]; ok {
				entries[ownerID] = e
			}
			continue
		}
		delete(c.patched, ownerID)
	}
	c.entries = entries
	c.version++
	c.mu.Unlock()

	if len(failed) > 0 {
		c.warn(fmt.Sprintf("Could not check %s for %d customer(s); they are shown without one.", c.kind.Label(), len(failed)))
	}
	return nil
}

// Lookup returns the entry for ownerID and whether a check has completed.
func (c *PresenceCache) Lookup(ownerID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ownerID]
	return e, ok
}

// PatchPresent records a successful create or update without waiting for a refresh.
func (c *PresenceCache) PatchPresent(ownerID string, account models.SubAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patch(ownerID, Entry{Present: true, Account: &account})
}

// PatchAbsent records a successful delete.
func (c *PresenceCache) PatchAbsent(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patch(ownerID, Entry{})
}

// patchIn applies e only if the cache has not been rescoped since gen.
func (c *PresenceCache) patchIn(gen uint64, ownerID string, e Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.patch(ownerID, e)
	return true
}

func (c *PresenceCache) patch(ownerID string, e Entry) {
	c.version++
	c.entries[ownerID] = e
	c.patched[ownerID] = c.version
}

// Generation identifies the current scope; it changes on every Reset.
func (c *PresenceCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Reset clears the cache for a new branch scope. In-flight refreshes started
// under the previous scope are discarded when they finish.
func (c *PresenceCache) Reset(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = scope
	c.gen++
	c.version++
	c.entries = map[string]Entry{}
	c.patched = map[string]uint64{}
}

func (c *PresenceCache) Scope() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// Version changes on every mutation so derived views know to recompute.
func (c *PresenceCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot copies the current entries.
func (c *PresenceCache) Snapshot() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
