// Package payload reads and writes the on-disk document formats: the
// versioned 2D structure file and the 3D takedown export. Loading is
// forward-compatible by default: the envelope is validated strictly,
// unknown or missing fields inside the state are defaulted.
package payload

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

const Version = 1

// Envelope is the 2D save-file wrapper.
type Envelope struct {
	Version int             `json:"version"`
	Module  string          `json:"module"`
	SavedAt string          `json:"savedAt"`
	State   json.RawMessage `json:"state"`
}

// envelopeSchema guards the wrapper shape before any state decoding.
// The state object itself is deliberately unconstrained.
const envelopeSchema = `{
  "type": "object",
  "required": ["version", "module", "state"],
  "properties": {
    "version": {"type": "integer"},
    "module": {"type": "string", "enum": ["frame", "truss"]},
    "savedAt": {"type": "string"},
    "state": {"type": "object"}
  }
}`

var compiledEnvelope = jsonschema.MustCompileString("envelope.schema.json", envelopeSchema)

// Marshal wraps a structure snapshot in the versioned envelope.
func Marshal(s structure.State, now time.Time) ([]byte, error) {
	st, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(Envelope{
		Version: Version,
		Module:  s.Module,
		SavedAt: now.UTC().Format(time.RFC3339),
		State:   st,
	}, "", "  ")
}

// Unmarshal validates the envelope and rebuilds a normalized state.
// Unknown version or module is an error; anything missing inside the
// state falls back to the rehydration defaults.
func Unmarshal(b []byte) (structure.State, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return structure.State{}, fmt.Errorf("parse document: %w", err)
	}
	if err := compiledEnvelope.Validate(doc); err != nil {
		return structure.State{}, fmt.Errorf("invalid document: %w", flattenSchemaErr(err))
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return structure.State{}, err
	}
	if env.Version != Version {
		return structure.State{}, fmt.Errorf("unsupported version %d", env.Version)
	}

	var s structure.State
	if err := json.Unmarshal(env.State, &s); err != nil {
		return structure.State{}, fmt.Errorf("parse state: %w", err)
	}
	// The envelope module wins over whatever the state claims.
	s.Module = env.Module
	return structure.Normalize(s), nil
}

// MarshalTakedown writes the 3D export document.
func MarshalTakedown(s takedown.State) ([]byte, error) {
	return json.MarshalIndent(takedown.ToModelInput(s), "", "  ")
}

// UnmarshalTakedown validates and rebuilds a takedown state.
func UnmarshalTakedown(b []byte) (takedown.State, error) {
	var m takedown.ModelInput
	if err := json.Unmarshal(b, &m); err != nil {
		return takedown.State{}, fmt.Errorf("parse document: %w", err)
	}
	return takedown.FromModelInput(m)
}

// flattenSchemaErr collapses the multi-line jsonschema error into one
// line for log output.
func flattenSchemaErr(err error) error {
	v, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	leaf := v
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if loc == "" {
		loc = "document"
	}
	return fmt.Errorf("%s: %s", loc, leaf.Message)
}
