// Package docs owns the open documents on a server: one store per
// document, rehydrated from autosave on open, with every applied wire
// action appended to the action log and every changed snapshot queued
// for autosave.
package docs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"framecraft.app/internal/persistence/actionlog"
	"framecraft.app/internal/persistence/autosave"
	"framecraft.app/internal/persistence/payload"
	"framecraft.app/internal/protocol"
	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrModuleMismatch = errors.New("document module mismatch")
)

// Document is one open model. Exactly one of the two stores is set,
// depending on the module.
type Document struct {
	ID     string
	Module string // "frame" | "truss" | "takedown"

	Structure *structure.Store
	Takedown  *takedown.Store
}

// Rev returns the document's revision counter.
func (d *Document) Rev() uint64 {
	if d.Structure != nil {
		return d.Structure.Rev()
	}
	return d.Takedown.Rev()
}

// Digest returns the canonical digest of the current snapshot.
func (d *Document) Digest() string {
	if d.Structure != nil {
		return structure.Digest(d.Structure.State())
	}
	return takedown.Digest(d.Takedown.State())
}

// StateJSON returns the current snapshot as JSON.
func (d *Document) StateJSON() (json.RawMessage, error) {
	if d.Structure != nil {
		return json.Marshal(d.Structure.State())
	}
	return json.Marshal(d.Takedown.State())
}

// ApplyWire decodes and applies one wire action. The returned protocol
// code is empty on success.
func (d *Document) ApplyWire(raw json.RawMessage) (rev uint64, changed bool, code string, err error) {
	if d.Structure != nil {
		a, derr := protocol.DecodeStructureAction(raw)
		if derr != nil {
			return d.Rev(), false, protocol.ErrUnknownAction, derr
		}
		_, changed = d.Structure.Apply(a)
		return d.Structure.Rev(), changed, "", nil
	}
	a, derr := protocol.DecodeTakedownAction(raw)
	if derr != nil {
		return d.Rev(), false, protocol.ErrUnknownAction, derr
	}
	_, changed = d.Takedown.Apply(a)
	return d.Takedown.Rev(), changed, "", nil
}

// Registry opens and tracks documents.
type Registry struct {
	saver *autosave.Store
	alog  *actionlog.Writer

	mu   sync.Mutex
	docs map[string]*Document
}

// NewRegistry wires the persistence sinks; either may be nil (tests,
// replay).
func NewRegistry(saver *autosave.Store, alog *actionlog.Writer) *Registry {
	return &Registry{
		saver: saver,
		alog:  alog,
		docs:  map[string]*Document{},
	}
}

// Open returns the document, loading it from autosave or creating it.
// An empty docID creates a fresh document with a generated id.
func (r *Registry) Open(docID, module string) (*Document, error) {
	if !protocol.KnownModule(module) {
		return nil, fmt.Errorf("unknown module %q", module)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if docID != "" {
		if d, ok := r.docs[docID]; ok {
			if d.Module != module {
				return nil, ErrModuleMismatch
			}
			return d, nil
		}
	}

	if docID == "" {
		docID = uuid.NewString()
	} else if r.saver != nil {
		if rec, err := r.saver.Load(docID); err == nil {
			return r.rehydrateLocked(rec, module)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	d := r.newDocLocked(docID, module)
	return d, nil
}

// Get returns an already-open document.
func (r *Registry) Get(docID string) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[docID]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (r *Registry) newDocLocked(docID, module string) *Document {
	d := &Document{ID: docID, Module: module}
	if module == protocol.ModuleTakedown {
		d.Takedown = takedown.NewStore()
	} else {
		d.Structure = structure.NewStore(module)
	}
	r.hookPersistence(d)
	r.docs[docID] = d
	return d
}

func (r *Registry) rehydrateLocked(rec autosave.Record, module string) (*Document, error) {
	if rec.Module != module {
		return nil, ErrModuleMismatch
	}
	d := &Document{ID: rec.DocID, Module: rec.Module}
	if rec.Module == protocol.ModuleTakedown {
		s, err := payload.UnmarshalTakedown(rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("rehydrate %s: %w", rec.DocID, err)
		}
		d.Takedown = takedown.NewStore()
		d.Takedown.Apply(takedown.ReplaceModel{State: s})
	} else {
		s, err := payload.Unmarshal(rec.Payload)
		if err != nil {
			return nil, fmt.Errorf("rehydrate %s: %w", rec.DocID, err)
		}
		d.Structure = structure.NewStore(rec.Module)
		d.Structure.Apply(structure.ReplaceState{State: s})
	}
	r.hookPersistence(d)
	r.docs[rec.DocID] = d
	return d, nil
}

// hookPersistence queues an autosave snapshot after every state change.
func (r *Registry) hookPersistence(d *Document) {
	if r.saver == nil {
		return
	}
	if d.Structure != nil {
		d.Structure.Subscribe(func(s structure.State, rev uint64) {
			b, err := payload.Marshal(s, time.Now())
			if err != nil {
				return
			}
			r.saver.Queue(autosave.Snapshot{
				DocID: d.ID, Module: d.Module, Rev: rev,
				Digest: structure.Digest(s), Payload: b,
			})
		})
		return
	}
	d.Takedown.Subscribe(func(s takedown.State, rev uint64) {
		b, err := payload.MarshalTakedown(s)
		if err != nil {
			return
		}
		r.saver.Queue(autosave.Snapshot{
			DocID: d.ID, Module: d.Module, Rev: rev,
			Digest: takedown.Digest(s), Payload: b,
		})
	})
}

// LogAction appends one applied action to the action log.
func (r *Registry) LogAction(d *Document, kind string, raw json.RawMessage, rev uint64) {
	if r.alog == nil {
		return
	}
	_ = r.alog.Append(actionlog.Entry{
		DocID:  d.ID,
		Module: d.Module,
		Kind:   kind,
		Action: raw,
		Rev:    rev,
		Digest: d.Digest(),
	})
}
