package bridge

import (
	"sync"

	"github.com/viaduct-ui/viaduct/pkg/history"
	"github.com/viaduct-ui/viaduct/pkg/protocol"
)

// patchSender delivers a patch batch to the client.
type patchSender interface {
	sendPatches(patches []protocol.Patch) error
}

// remoteHistory projects history mutations onto the client. The real
// stack lives in the browser; this side only tracks the location it
// last announced and forwards mutations as patches.
type remoteHistory struct {
	sender patchSender

	mu      sync.Mutex
	current history.Location
	pops    map[uint64]func(history.Location)
	nextID  uint64
}

func newRemoteHistory(sender patchSender, initial history.Location) *remoteHistory {
	return &remoteHistory{
		sender:  sender,
		current: initial,
		pops:    make(map[uint64]func(history.Location)),
	}
}

func (h *remoteHistory) Push(loc history.Location) {
	h.setCurrent(loc)
	h.sender.sendPatches([]protocol.Patch{{
		Op:     protocol.PatchPush,
		Path:   loc.Path,
		Search: loc.Search,
		Hash:   loc.Hash,
	}})
}

func (h *remoteHistory) Replace(loc history.Location) {
	h.setCurrent(loc)
	h.sender.sendPatches([]protocol.Patch{{
		Op:     protocol.PatchReplace,
		Path:   loc.Path,
		Search: loc.Search,
		Hash:   loc.Hash,
	}})
}

// Go forwards the traversal to the client; the resulting movement
// comes back asynchronously as a pop event.
func (h *remoteHistory) Go(delta int) {
	if delta == 0 {
		return
	}
	h.sender.sendPatches([]protocol.Patch{{
		Op:    protocol.PatchGo,
		Delta: delta,
	}})
}

func (h *remoteHistory) Location() history.Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *remoteHistory) OnPop(fn func(history.Location)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.pops[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.pops, id)
	}
}

// pop records a client-side traversal and dispatches the handlers.
func (h *remoteHistory) pop(loc history.Location) {
	h.mu.Lock()
	h.current = loc
	fns := make([]func(history.Location), 0, len(h.pops))
	for _, fn := range h.pops {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
}

func (h *remoteHistory) setCurrent(loc history.Location) {
	h.mu.Lock()
	h.current = loc
	h.mu.Unlock()
}
