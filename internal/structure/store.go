package structure

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Store owns one immutable State snapshot and a subscriber list.
// Apply swaps in the reduced snapshot and notifies subscribers; nobody
// writes fields directly.
type Store struct {
	mu    sync.Mutex
	state State
	rev   uint64

	nextSub int
	subs    map[int]func(State, uint64)
}

func NewStore(module string) *Store {
	return &Store{
		state: NewState(module),
		subs:  map[int]func(State, uint64){},
	}
}

// State returns the current snapshot. Snapshots are never mutated after
// publication, so the caller may hold it as long as it likes.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Rev returns the revision counter; it increments once per applied
// action that changed the snapshot.
func (st *Store) Rev() uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.rev
}

// Apply reduces the action and publishes the result. Returns the new
// snapshot and whether it differs from the previous one.
func (st *Store) Apply(a Action) (State, bool) {
	st.mu.Lock()
	prev := st.state
	next := Reduce(prev, a)
	changed := !statesEqual(prev, next)
	if changed {
		st.state = next
		st.rev++
	}
	rev := st.rev
	subs := make([]func(State, uint64), 0, len(st.subs))
	for _, fn := range st.subs {
		subs = append(subs, fn)
	}
	st.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(next, rev)
		}
	}
	return next, changed
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (st *Store) Subscribe(fn func(State, uint64)) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = fn
	st.mu.Unlock()
	return func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

// Digest is a canonical-JSON sha256 of the snapshot; replays compare it
// to verify determinism.
func Digest(s State) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func statesEqual(a, b State) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(ab) == string(bb)
}
