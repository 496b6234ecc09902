// Package presence tracks per-peer unread message counts and online state on
// the client. REST snapshots are authoritative; Socket.IO push events keep
// the view fresh between snapshots. Duplicate or dropped pushes are tolerated
// and corrected by the next snapshot.
package presence

import (
	"sync"

	"github.com/sia12-web/unihood/internal/wire"
	"github.com/sia12-web/unihood/pkg/logger"
)

// Snapshot is an immutable view of the tracker's state, delivered to
// subscribers on every mutation.
type Snapshot struct {
	// Counts maps peer user id to unread count (always non-negative).
	Counts map[string]int
	// Total is the sum of all unread counts.
	Total int
	// Online is the set of peers currently reported online.
	Online map[string]bool
	// ActivePeer is the conversation currently open in the UI, if any.
	ActivePeer string
}

// PushSource delivers asynchronous message and presence push events.
//
// The returned cancel funcs detach the handlers; they must be safe to call
// more than once.
type PushSource interface {
	OnMessage(handler func(wire.MessagePush)) (cancel func())
	OnPresence(handler func(wire.PresencePush)) (cancel func())
}

// Tracker is the client-side unread/presence state machine.
//
// All state is mutated only through the exported operations; push-source
// callbacks route through the same entrypoints, so the mutex is the single
// writer gate.
type Tracker struct {
	mu            sync.Mutex
	counts        map[string]int
	online        map[string]bool
	activePeer    string
	boundIdentity string
	boundSource   PushSource
	cancels       []func()

	nextSubID int
	subs      map[int]func(Snapshot)
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		counts: make(map[string]int),
		online: make(map[string]bool),
		subs:   make(map[int]func(Snapshot)),
	}
}

// LoadSnapshot replaces the entire unread mapping with authoritative server
// counts. Used on cold start and after a socket rebind.
func (t *Tracker) LoadSnapshot(counts map[string]int) {
	t.mu.Lock()
	t.counts = make(map[string]int, len(counts))
	for peer, n := range counts {
		if n < 0 {
			n = 0
		}
		t.counts[peer] = n
	}
	t.notifyLocked()
}

// HandleMessage applies an incoming message push event.
//
// Messages for the active conversation are implicitly read and do not change
// the count. A missing or non-positive delta counts as one message.
func (t *Tracker) HandleMessage(evt wire.MessagePush) {
	if evt.FromUserID == "" {
		return
	}
	delta := evt.Delta
	if delta <= 0 {
		delta = 1
	}

	t.mu.Lock()
	if evt.FromUserID == t.activePeer && t.activePeer != "" {
		t.mu.Unlock()
		return
	}
	t.counts[evt.FromUserID] += delta
	t.notifyLocked()
}

// HandlePresence applies a peer online/offline push event.
func (t *Tracker) HandlePresence(evt wire.PresencePush) {
	if evt.UserID == "" {
		return
	}
	t.mu.Lock()
	if evt.Online {
		if t.online[evt.UserID] {
			t.mu.Unlock()
			return
		}
		t.online[evt.UserID] = true
	} else {
		if !t.online[evt.UserID] {
			t.mu.Unlock()
			return
		}
		delete(t.online, evt.UserID)
	}
	t.notifyLocked()
}

// Acknowledge resets a peer's unread count to zero. Acknowledging a peer with
// no entry is a no-op. Removing an entry is a visible change even at count
// zero, so subscribers are notified whenever one existed.
func (t *Tracker) Acknowledge(peer string) {
	t.mu.Lock()
	if _, ok := t.counts[peer]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.counts, peer)
	t.notifyLocked()
}

// AcknowledgeAll resets every peer's unread count to zero.
func (t *Tracker) AcknowledgeAll() {
	t.mu.Lock()
	if len(t.counts) == 0 {
		t.mu.Unlock()
		return
	}
	t.counts = make(map[string]int)
	t.notifyLocked()
}

// SetActivePeer updates the active-conversation pointer. It suppresses future
// increments for that peer but does not retroactively clear counts; callers
// Acknowledge once the thread actually renders.
func (t *Tracker) SetActivePeer(peer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activePeer = peer
}

// ActivePeer returns the current active-conversation pointer.
func (t *Tracker) ActivePeer() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activePeer
}

// TotalUnread returns the sum of all unread counts.
func (t *Tracker) TotalUnread() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Subscribe registers a listener invoked with a fresh snapshot on every
// mutation. The returned func unsubscribes; it is safe to call more than
// once.
func (t *Tracker) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextSubID
	t.nextSubID++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Bind attaches the tracker to a push-event source for the given identity.
//
// Rebinding with the same identity and source is a no-op. The same identity on
// a new source (a reconnect replacing a dead socket) supersedes the prior
// binding and keeps accumulated counts; a different identity supersedes and
// clears state accumulated for it.
func (t *Tracker) Bind(identity string, src PushSource) {
	t.mu.Lock()
	if t.boundIdentity == identity && t.boundSource == src && len(t.cancels) > 0 {
		t.mu.Unlock()
		return
	}
	t.detachLocked()
	if t.boundIdentity != "" && t.boundIdentity != identity {
		t.counts = make(map[string]int)
		t.online = make(map[string]bool)
		t.activePeer = ""
	}
	t.boundIdentity = identity
	t.boundSource = src
	t.mu.Unlock()

	cancelMsg := src.OnMessage(func(evt wire.MessagePush) {
		defer absorb("message push")
		t.HandleMessage(evt)
	})
	cancelPresence := src.OnPresence(func(evt wire.PresencePush) {
		defer absorb("presence push")
		t.HandlePresence(evt)
	})

	t.mu.Lock()
	t.cancels = append(t.cancels, cancelMsg, cancelPresence)
	t.mu.Unlock()
}

// Unbind releases the push-event binding and clears all state. Must be
// invoked on logout or teardown.
func (t *Tracker) Unbind() {
	t.mu.Lock()
	t.detachLocked()
	t.boundIdentity = ""
	t.boundSource = nil
	t.activePeer = ""
	t.counts = make(map[string]int)
	t.online = make(map[string]bool)
	t.notifyLocked()
}

// detachLocked cancels any registered push handlers. Caller holds the mutex.
func (t *Tracker) detachLocked() {
	for _, cancel := range t.cancels {
		if cancel != nil {
			cancel()
		}
	}
	t.cancels = nil
}

func (t *Tracker) snapshotLocked() Snapshot {
	counts := make(map[string]int, len(t.counts))
	total := 0
	for peer, n := range t.counts {
		counts[peer] = n
		total += n
	}
	online := make(map[string]bool, len(t.online))
	for peer := range t.online {
		online[peer] = true
	}
	return Snapshot{
		Counts:     counts,
		Total:      total,
		Online:     online,
		ActivePeer: t.activePeer,
	}
}

// notifyLocked snapshots state and listeners, releases the mutex and invokes
// the listeners. Listeners therefore run outside the lock and may call back
// into the tracker.
func (t *Tracker) notifyLocked() {
	snap := t.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(t.subs))
	for _, fn := range t.subs {
		listeners = append(listeners, fn)
	}
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// absorb keeps transport-level panics out of subscribers; the next REST
// snapshot is the recovery path.
func absorb(what string) {
	if r := recover(); r != nil {
		logger.Warnf("[presence] %s handler panic: %v", what, r)
	}
}
