// Package protocol defines the JSON messages between modeling clients
// and the document server, plus the wire encoding of store actions.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeAct     = "ACT"
	TypeState   = "STATE"
	TypeResult  = "ACTION_RESULT"
)

// Document modules.
const (
	ModuleFrame    = "frame"
	ModuleTruss    = "truss"
	ModuleTakedown = "takedown"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

func KnownModule(m string) bool {
	switch m {
	case ModuleFrame, ModuleTruss, ModuleTakedown:
		return true
	}
	return false
}
