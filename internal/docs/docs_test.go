package docs

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"framecraft.app/internal/persistence/autosave"
	"framecraft.app/internal/protocol"
)

func TestOpen_CreatesAndReuses(t *testing.T) {
	r := NewRegistry(nil, nil)

	d, err := r.Open("", protocol.ModuleFrame)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if d.ID == "" || d.Structure == nil || d.Takedown != nil {
		t.Fatalf("fresh frame doc: %+v", d)
	}

	again, err := r.Open(d.ID, protocol.ModuleFrame)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again != d {
		t.Fatalf("reopen must return the same document")
	}

	if _, err := r.Open(d.ID, protocol.ModuleTakedown); err != ErrModuleMismatch {
		t.Fatalf("module mismatch: got %v", err)
	}
	if _, err := r.Open("", "shell"); err == nil {
		t.Fatalf("unknown module must error")
	}
}

func TestApplyWire_AcceptsAndRejects(t *testing.T) {
	r := NewRegistry(nil, nil)
	d, _ := r.Open("", protocol.ModuleFrame)

	rev, changed, code, err := d.ApplyWire(json.RawMessage(`{"kind":"ADD_NODE","x":1,"y":2}`))
	if err != nil || code != "" || !changed || rev != 1 {
		t.Fatalf("apply: rev=%d changed=%v code=%q err=%v", rev, changed, code, err)
	}
	if n := len(d.Structure.State().Nodes); n != 1 {
		t.Fatalf("node not created: %d", n)
	}

	// Referential miss is accepted but changes nothing.
	before := d.Digest()
	rev, changed, code, err = d.ApplyWire(json.RawMessage(`{"kind":"DELETE_NODE","id":"node-99"}`))
	if err != nil || code != "" || changed || rev != 1 {
		t.Fatalf("miss: rev=%d changed=%v code=%q err=%v", rev, changed, code, err)
	}
	if d.Digest() != before {
		t.Fatalf("digest moved on a no-op")
	}

	_, _, code, err = d.ApplyWire(json.RawMessage(`{"kind":"EXPLODE"}`))
	if err == nil || code != protocol.ErrUnknownAction {
		t.Fatalf("unknown kind: code=%q err=%v", code, err)
	}
}

func TestOpen_RehydratesFromAutosave(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "autosave.db")
	saver, err := autosave.Open(dbPath, time.Millisecond)
	if err != nil {
		t.Fatalf("autosave: %v", err)
	}

	r := NewRegistry(saver, nil)
	d, _ := r.Open("", protocol.ModuleTruss)
	docID := d.ID
	if _, _, code, err := d.ApplyWire(json.RawMessage(`{"kind":"ADD_NODE","x":3,"y":0}`)); err != nil || code != "" {
		t.Fatalf("apply: %q %v", code, err)
	}
	wantDigest := d.Digest()
	if err := saver.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	saver, err = autosave.Open(dbPath, 0)
	if err != nil {
		t.Fatalf("reopen autosave: %v", err)
	}
	defer saver.Close()

	r2 := NewRegistry(saver, nil)
	got, err := r2.Open(docID, protocol.ModuleTruss)
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	s := got.Structure.State()
	if len(s.Nodes) != 1 || s.Nodes[0].X != 3 {
		t.Fatalf("state lost: %+v", s.Nodes)
	}
	if got.Digest() != wantDigest {
		t.Fatalf("digest after rehydration: got %s want %s", got.Digest(), wantDigest)
	}
}

func TestGet_UnknownDoc(t *testing.T) {
	r := NewRegistry(nil, nil)
	if _, err := r.Get("nope"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
