package takedown

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Store mirrors the 2D store: one immutable snapshot, a closed action
// set, subscriber notification after every change.
type Store struct {
	mu    sync.Mutex
	state State
	rev   uint64

	nextSub int
	subs    map[int]func(State, uint64)
}

func NewStore() *Store {
	return &Store{
		state: NewState(),
		subs:  map[int]func(State, uint64){},
	}
}

func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

func (st *Store) Rev() uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.rev
}

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
