// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache owns the console's paginated, searched view of the VM
// inventory.
//
// Each cached page is keyed by its [Fingerprint] (page number + search term)
// and carries a freshness state: Fresh pages are served as-is, Stale or
// absent pages trigger a refetch through the transport, Loading pages share
// the single in-flight fetch with every concurrent reader.
//
// The one rule everything here exists to enforce: any mutation of the
// record set, whether performed through this controller or announced by
// the push channel, invalidates every held page. Page membership of a
// record under an arbitrary search term cannot be determined client-side,
// so no fine-grained patching is attempted; the cost of an extra refetch
// buys freedom from reconciliation bugs.
//
// The page set has a single writer: all mutation happens under the
// controller's mutex, the view layer and the push channel only enter
// through exported operations.
package cache

import (
	"context"
	"sync"

	"github.com/MKhiriev/vm-console/internal/adapter"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
)

// Freshness is the lifecycle state of one cached page.
type Freshness int

const (
	// Fresh pages reflect a fetch no invalidation has touched since.
	Fresh Freshness = iota
	// Stale pages are served from cache but refetched on the next read.
	Stale
	// Loading pages have a fetch in flight.
	Loading
)

// String implements [fmt.Stringer] for log output.
func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Loading:
		return "loading"
	default:
		return "stale"
	}
}

// Fingerprint identifies one cached query result.
type Fingerprint struct {
	Page   int
	Search string
}

// Snapshot is the renderable state of one page, detached from the cache:
// mutating a snapshot never affects the controller's copy.
type Snapshot struct {
	Fingerprint Fingerprint
	Items       []models.VM
	TotalPages  int
	State       Freshness

	// Err is the classified error of the most recent failed refetch, nil
	// once a fetch succeeds. Stale items stay visible alongside it.
	Err error
}

// IdentitySource reports who is using the console. The session store
// satisfies it.
type IdentitySource interface {
	Identity() (models.Identity, bool)
}

// fetchCall is one in-flight list fetch. Concurrent readers of the same
// fingerprint block on done and share the result.
type fetchCall struct {
	done chan struct{}
	snap Snapshot
	err  error
}

// entry is the cache-internal state of one fingerprint.
type entry struct {
	items      []models.VM
	totalPages int
	state      Freshness
	lastErr    error

	// seq numbers fetches per fingerprint; only the completion carrying
	// the latest valid seq may be applied.
	seq      uint64
	minValid uint64
	inflight *fetchCall
}

// Controller is the query cache and invalidation controller.
type Controller struct {
	transport  adapter.InventoryClient
	identities IdentitySource
	logger     *logger.Logger

	mu         sync.Mutex
	pages      map[Fingerprint]*entry
	current    Fingerprint
	hasCurrent bool
}

// NewController constructs an empty controller over the given transport.
// identities gates access to the mutating operations (see [Controller.Mutator]).
func NewController(transport adapter.InventoryClient, identities IdentitySource, logger *logger.Logger) *Controller {
	return &Controller{
		transport:  transport,
		identities: identities,
		logger:     logger,
		pages:      make(map[Fingerprint]*entry),
	}
}

// GetPage returns the state of the page identified by (page, search),
// fetching through the transport when the cached copy is absent or stale.
//
// A failed refetch keeps previously fetched items visible: the returned
// snapshot carries them together with the classified error, and the page
// goes back to Stale so the next read retries. Concurrent calls for a
// fingerprint that is already Loading await the in-flight fetch instead of
// issuing a duplicate request.
func (c *Controller) GetPage(ctx context.Context, page int, search string) (Snapshot, error) {
	fp := Fingerprint{Page: page, Search: search}

	c.mu.Lock()
	c.current = fp
	c.hasCurrent = true

	e, ok := c.pages[fp]
	if !ok {
		e = &entry{state: Stale}
		c.pages[fp] = e
	}

	if e.state == Fresh {
		snap := c.snapshotLocked(fp, e)
		c.mu.Unlock()
		return snap, nil
	}

	if e.state == Loading && e.inflight != nil {
		call := e.inflight
		c.mu.Unlock()
		return awaitCall(ctx, call)
	}

	call := c.startFetchLocked(fp, e)
	c.mu.Unlock()

	return awaitCall(ctx, call)
}

// Refresh forces a refetch of the given fingerprint regardless of its
// current freshness. Used by the view's manual reload.
func (c *Controller) Refresh(ctx context.Context, page int, search string) (Snapshot, error) {
	c.mu.Lock()
	fp := Fingerprint{Page: page, Search: search}
	if e, ok := c.pages[fp]; ok && e.state == Fresh {
		e.state = Stale
	}
	c.mu.Unlock()

	return c.GetPage(ctx, page, search)
}

// OnChannelEvent implements the push-side invalidation rule: every held
// page becomes stale, regardless of the event kind. The event payload is
// deliberately ignored: it is a hint, not state.
func (c *Controller) OnChannelEvent(channel.Event) {
	c.mu.Lock()
	c.invalidateAllLocked()
	c.mu.Unlock()
}

// Mutator returns the handle exposing create/update/delete. Only an
// Administrator identity receives one; everyone else gets [ErrForbidden]
// before any transport call can happen.
func (c *Controller) Mutator() (*Mutator, error) {
	identity, ok := c.identities.Identity()
	if !ok || !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return &Mutator{controller: c}, nil
}

// startFetchLocked transitions e to Loading and launches the transport
// fetch. Callers must hold c.mu.
func (c *Controller) startFetchLocked(fp Fingerprint, e *entry) *fetchCall {
	e.seq++
	seq := e.seq
	e.state = Loading

	call := &fetchCall{done: make(chan struct{})}
	e.inflight = call

	go func() {
		list, err := c.transport.ListVMs(context.Background(), fp.Page, fp.Search)
		c.completeFetch(fp, seq, call, list, err)
	}()

	return call
}

// completeFetch applies a finished fetch, unless a newer fetch or an
// invalidation has superseded it (stale completions must never overwrite
// fresher data).
func (c *Controller) completeFetch(fp Fingerprint, seq uint64, call *fetchCall, list models.VMList, err error) {
	c.mu.Lock()

	e, ok := c.pages[fp]
	if !ok || seq < e.minValid || seq != e.seq {
		// Superseded: hand waiters whatever the cache holds now.
		call.snap = c.snapshotLocked(fp, e)
		c.mu.Unlock()
		close(call.done)
		return
	}

	if e.inflight == call {
		e.inflight = nil
	}

	if err != nil {
		e.state = Stale
		e.lastErr = err
		c.logger.Debug().Err(err).Int("page", fp.Page).Str("search", fp.Search).Msg("page refetch failed, serving stale data")
	} else {
		e.items = list.Items
		e.totalPages = list.Meta.TotalPages
		e.state = Fresh
		e.lastErr = nil
	}

	call.snap = c.snapshotLocked(fp, e)
	call.err = err
	c.mu.Unlock()
	close(call.done)
}

// invalidateAllLocked marks every held page stale. Pages with a fetch in
// flight additionally raise their validity floor so the in-flight
// completion is discarded: data fetched before the invalidating event must
// not satisfy a read issued after it.
func (c *Controller) invalidateAllLocked() {
	for _, e := range c.pages {
		if e.state == Loading {
			e.minValid = e.seq + 1
			e.inflight = nil
		}
		e.state = Stale
	}
}

func (c *Controller) snapshotLocked(fp Fingerprint, e *entry) Snapshot {
	if e == nil {
		return Snapshot{Fingerprint: fp, State: Stale}
	}

	items := make([]models.VM, len(e.items))
	copy(items, e.items)

	return Snapshot{
		Fingerprint: fp,
		Items:       items,
		TotalPages:  e.totalPages,
		State:       e.state,
		Err:         e.lastErr,
	}
}

func awaitCall(ctx context.Context, call *fetchCall) (Snapshot, error) {
	select {
	case <-call.done:
		return call.snap, call.err
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}
