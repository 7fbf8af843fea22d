package archive

import (
	"os"
	"strings"
	"testing"
)

func TestCheckpoint_WritesPayloadAndMeta(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`{"version":1,"module":"frame"}`)

	path, err := Checkpoint(dir, "doc-1", "frame", 12, "abc123", "Before re-span", payload)
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if !strings.HasSuffix(path, "rev_000012_before-re-span.json") {
		t.Fatalf("path: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != string(payload) {
		t.Fatalf("payload: %q %v", b, err)
	}

	metas, err := List(dir, "doc-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d metas", len(metas))
	}
	m := metas[0]
	if m.Rev != 12 || m.Digest != "abc123" || m.Module != "frame" || m.Label != "Before re-span" {
		t.Fatalf("meta: %+v", m)
	}
}

func TestCheckpoint_RejectsDuplicate(t *testing.T) {
	dir := t.TempDir()
	if _, err := Checkpoint(dir, "doc-1", "frame", 3, "d", "", []byte("{}")); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := Checkpoint(dir, "doc-1", "frame", 3, "d", "", []byte("{}")); err == nil {
		t.Fatalf("duplicate checkpoint must fail")
	}
}

func TestList_EmptyForUnknownDoc(t *testing.T) {
	metas, err := List(t.TempDir(), "missing")
	if err != nil || metas != nil {
		t.Fatalf("got %v, %v", metas, err)
	}
}
