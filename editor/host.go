// ABOUTME: Page lifecycle hook: tears down a view's mounts and creates fresh ones on navigation.
// ABOUTME: Re-entrant across views, so many pages and mount points can be live at once.
package editor

import "sync"

// Host tracks which mounts belong to which page view.
type Host struct {
	mu    sync.Mutex
	store *Store
	views map[string][]string

	// gone queues mounts the store removed on its own (TTL, capacity, API
	// delete). It has its own lock because the store may remove mounts while
	// Navigate holds mu.
	goneMu sync.Mutex
	gone   []*Mount
}

// NewHost creates a Host backed by store. Mounts the store removes are
// dropped from their view, and a view with no mounts left is forgotten.
func NewHost(store *Store) *Host {
	h := &Host{
		store: store,
		views: make(map[string][]string),
	}
	store.OnEvict(h.forget)
	return h
}

func (h *Host) forget(m *Mount) {
	if m.ViewID == "" {
		return
	}
	h.goneMu.Lock()
	h.gone = append(h.gone, m)
	h.goneMu.Unlock()

	// The cleanup goroutine would otherwise leave views behind until the
	// next page load.
	if h.mu.TryLock() {
		h.pruneLocked()
		h.mu.Unlock()
	}
}

// pruneLocked removes queued mounts from their views.
func (h *Host) pruneLocked() {
	h.goneMu.Lock()
	gone := h.gone
	h.gone = nil
	h.goneMu.Unlock()

	for _, m := range gone {
		ids := h.views[m.ViewID]
		for i, id := range ids {
			if id == m.ID {
				ids = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(h.views, m.ViewID)
		} else {
			h.views[m.ViewID] = ids
		}
	}
}

// Navigate is called whenever viewID shows a new page. Every mount the view
// owned is torn down, then one mount is created per spec, in order.
func (h *Host) Navigate(viewID string, specs []MountSpec) []*Mount {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.teardownLocked(viewID)

	mounts := make([]*Mount, 0, len(specs))
	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		spec.ViewID = viewID
		m := h.store.Create(spec)
		mounts = append(mounts, m)
		ids = append(ids, m.ID)
	}
	if len(ids) > 0 {
		h.views[viewID] = ids
	}
	// Capacity eviction during Create may have taken mounts from any view,
	// including this one.
	h.pruneLocked()
	return mounts
}

// Teardown removes every mount owned by viewID and returns how many were live.
func (h *Host) Teardown(viewID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.teardownLocked(viewID)
}

func (h *Host) teardownLocked(viewID string) int {
	h.pruneLocked()
	removed := 0
	for _, id := range h.views[viewID] {
		if h.store.Delete(id) {
			removed++
		}
	}
	delete(h.views, viewID)
	return removed
}

// Mounts returns the ids of the mounts viewID currently owns.
func (h *Host) Mounts(viewID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()
	ids := h.views[viewID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Views returns the number of views with live mounts.
func (h *Host) Views() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()
	return len(h.views)
}
