// Package archive writes named document checkpoints: a copy of the
// versioned payload plus a meta.json, under `dataDir/archives/<docID>/`.
// Checkpoints are manual and immutable, unlike the rolling autosave.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Meta describes one checkpoint.
type Meta struct {
	DocID     string `json:"docId"`
	Module    string `json:"module"`
	Rev       uint64 `json:"rev"`
	Digest    string `json:"digest"`
	Label     string `json:"label,omitempty"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"createdAt"`
}

// Checkpoint writes the payload and its meta file and returns the
// payload path. The label, if any, becomes part of the file name.
func Checkpoint(dataDir, docID, module string, rev uint64, digest, label string, payload []byte) (string, error) {
	dir := filepath.Join(dataDir, "archives", docID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("rev_%06d", rev)
	if s := slug(label); s != "" {
		name += "_" + s
	}
	dst := filepath.Join(dir, name+".json")
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("checkpoint %s already exists", filepath.Base(dst))
	}
	if err := os.WriteFile(dst, payload, 0o644); err != nil {
		return "", err
	}

	meta := Meta{
		DocID:     docID,
		Module:    module,
		Rev:       rev,
		Digest:    digest,
		Label:     label,
		Payload:   filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".meta.json"), b, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

// List returns a document's checkpoints in file-name (revision) order.
func List(dataDir, docID string) ([]Meta, error) {
	dir := filepath.Join(dataDir, "archives", docID)
	ents, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]Meta, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".meta.json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var m Meta
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, m)
	}
	return out, nil
}

// slug keeps labels filesystem-safe.
func slug(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
