package structure

import "testing"

func TestStore_ApplyNotifiesSubscribers(t *testing.T) {
	st := NewStore(ModuleFrame)
	var gotRev uint64
	calls := 0
	unsub := st.Subscribe(func(s State, rev uint64) {
		calls++
		gotRev = rev
		if len(s.Nodes) != 1 {
			t.Fatalf("subscriber saw %d nodes", len(s.Nodes))
		}
	})
	if _, changed := st.Apply(AddNode{X: 1, Y: 2}); !changed {
		t.Fatalf("AddNode must change the state")
	}
	if calls != 1 || gotRev != 1 {
		t.Fatalf("calls=%d rev=%d", calls, gotRev)
	}

	// No-op actions do not notify or bump the revision.
	if _, changed := st.Apply(DeleteNode{ID: "ghost"}); changed {
		t.Fatalf("referential miss must not change the state")
	}
	if calls != 1 || st.Rev() != 1 {
		t.Fatalf("no-op notified: calls=%d rev=%d", calls, st.Rev())
	}

	unsub()
	st.Apply(AddNode{X: 3, Y: 4})
	if calls != 1 {
		t.Fatalf("unsubscribed callback still ran")
	}
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	st := NewStore(ModuleFrame)
	st.Apply(AddNode{X: 1, Y: 2})
	before := st.State()
	st.Apply(MoveNode{ID: "node-1", X: 9, Y: 9})
	if before.Nodes[0].X != 1 || before.Nodes[0].Y != 2 {
		t.Fatalf("published snapshot mutated: %+v", before.Nodes[0])
	}
}

func TestDigest_Deterministic(t *testing.T) {
	a := NewState(ModuleFrame)
	b := NewState(ModuleFrame)
	if Digest(a) != Digest(b) {
		t.Fatalf("equal states must digest equal")
	}
	b = Reduce(b, AddNode{X: 0, Y: 0})
	if Digest(a) == Digest(b) {
		t.Fatalf("different states must digest differently")
	}
}
