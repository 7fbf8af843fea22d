package protocol

import "encoding/json"

// HELLO (client -> server): open or create a document session.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name,omitempty"`
	DocID           string `json:"doc_id,omitempty"` // empty asks for a fresh document
	Module          string `json:"module"`           // "frame" | "truss" | "takedown"
}

// WELCOME (server -> client): session opened, full snapshot attached.
type WelcomeMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	SessionID       string          `json:"session_id"`
	DocID           string          `json:"doc_id"`
	Module          string          `json:"module"`
	Rev             uint64          `json:"rev"`
	Digest          string          `json:"digest"`
	State           json.RawMessage `json:"state"`
}

// ACT (client -> server): one store action against the session document.
type ActMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	ID              string          `json:"id"` // client-chosen, echoed in ACTION_RESULT
	Action          json.RawMessage `json:"action"`
}

// STATE (server -> client): snapshot broadcast after an accepted action.
// Latest-wins: a slow client may skip intermediate revisions but never
// sees them out of order.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	DocID           string          `json:"doc_id"`
	Rev             uint64          `json:"rev"`
	Digest          string          `json:"digest"`
	State           json.RawMessage `json:"state"`
}

// ACTION_RESULT (server -> client).
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"` // E_* on rejection
	Message         string `json:"message,omitempty"`
	Rev             uint64 `json:"rev,omitempty"`
	Changed         bool   `json:"changed,omitempty"`
}
