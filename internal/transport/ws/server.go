package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"framecraft.app/internal/docs"
	"framecraft.app/internal/protocol"
	"framecraft.app/internal/structure"
	"framecraft.app/internal/takedown"
)

// Server speaks the document protocol over websockets. Each connection
// is one session on one document; STATE broadcasts are latest-wins, so
// a slow client skips revisions instead of backing up the store.
type Server struct {
	reg *docs.Registry
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(reg *docs.Registry, logger *log.Logger) *Server {
	return &Server{
		reg: reg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// stateBox is a one-slot mailbox: a newer snapshot replaces an unsent
// older one.
type stateBox struct {
	mu  sync.Mutex
	b   []byte
	sig chan struct{}
}

func newStateBox() *stateBox {
	return &stateBox{sig: make(chan struct{}, 1)}
}

func (m *stateBox) put(b []byte) {
	m.mu.Lock()
	m.b = b
	m.mu.Unlock()
	select {
	case m.sig <- struct{}{}:
	default:
	}
}

func (m *stateBox) take() []byte {
	m.mu.Lock()
	b := m.b
	m.b = nil
	m.mu.Unlock()
	return b
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		doc, sessionID := s.handshake(conn)
		if doc == nil {
			return
		}
		s.log.Printf("session %s opened doc=%s module=%s", sessionID, doc.ID, doc.Module)

		results := make(chan []byte, 64)
		states := newStateBox()
		done := make(chan struct{})
		var closeOnce sync.Once
		closeDone := func() { closeOnce.Do(func() { close(done) }) }

		unsubscribe := s.subscribeStates(doc, states)
		defer unsubscribe()

		// Writer goroutine: results first, then the freshest state.
		go func() {
			for {
				select {
				case <-done:
					return
				case b, ok := <-results:
					if !ok {
						return
					}
					if !s.write(conn, b) {
						closeDone()
						return
					}
				case <-states.sig:
					if b := states.take(); b != nil {
						if !s.write(conn, b) {
							closeDone()
							return
						}
					}
				}
			}
		}()

		// Reader loop.
		for {
			select {
			case <-done:
				return
			default:
			}
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				closeDone()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}

			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				s.sendResult(results, act.ID, false, protocol.ErrProtoBadRequest, "bad protocol_version", 0, false)
				continue
			}
			if len(act.Action) == 0 {
				s.sendResult(results, act.ID, false, protocol.ErrBadRequest, "action missing", 0, false)
				continue
			}

			kind, err := protocol.ActionKind(act.Action)
			if err != nil {
				s.sendResult(results, act.ID, false, protocol.ErrBadRequest, err.Error(), 0, false)
				continue
			}
			rev, changed, code, err := doc.ApplyWire(act.Action)
			if err != nil {
				s.sendResult(results, act.ID, false, code, err.Error(), rev, false)
				continue
			}
			if changed {
				s.reg.LogAction(doc, kind, act.Action, rev)
			}
			s.sendResult(results, act.ID, true, "", "", rev, changed)
		}

		s.log.Printf("session %s closed doc=%s", sessionID, doc.ID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (*docs.Document, string) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		s.closePolicy(conn, "expected HELLO")
		return nil, ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		s.closePolicy(conn, "bad HELLO")
		return nil, ""
	}
	if hello.ProtocolVersion != protocol.Version {
		s.closePolicy(conn, "bad protocol_version")
		return nil, ""
	}
	if !protocol.KnownModule(hello.Module) {
		s.closePolicy(conn, "unknown module")
		return nil, ""
	}

	doc, err := s.reg.Open(hello.DocID, hello.Module)
	if err != nil {
		if err == docs.ErrModuleMismatch {
			s.closePolicy(conn, protocol.ErrModuleMismatch)
		} else {
			s.closePolicy(conn, protocol.ErrDocNotFound)
		}
		return nil, ""
	}

	state, err := doc.StateJSON()
	if err != nil {
		return nil, ""
	}
	sessionID := uuid.NewString()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		DocID:           doc.ID,
		Module:          doc.Module,
		Rev:             doc.Rev(),
		Digest:          doc.Digest(),
		State:           state,
	}
	b, err := json.Marshal(welcome)
	if err != nil {
		return nil, ""
	}
	if !s.write(conn, b) {
		return nil, ""
	}
	return doc, sessionID
}

// subscribeStates pushes a STATE message into the mailbox on every
// store change.
func (s *Server) subscribeStates(doc *docs.Document, box *stateBox) func() {
	publish := func(state json.RawMessage, rev uint64, digest string) {
		msg := protocol.StateMsg{
			Type:            protocol.TypeState,
			ProtocolVersion: protocol.Version,
			DocID:           doc.ID,
			Rev:             rev,
			Digest:          digest,
			State:           state,
		}
		if b, err := json.Marshal(msg); err == nil {
			box.put(b)
		}
	}

	if doc.Structure != nil {
		return doc.Structure.Subscribe(func(st structure.State, rev uint64) {
			b, err := json.Marshal(st)
			if err != nil {
				return
			}
			publish(b, rev, structure.Digest(st))
		})
	}
	return doc.Takedown.Subscribe(func(st takedown.State, rev uint64) {
		b, err := json.Marshal(st)
		if err != nil {
			return
		}
		publish(b, rev, takedown.Digest(st))
	})
}

func (s *Server) sendResult(out chan<- []byte, ackFor string, accepted bool, code, message string, rev uint64, changed bool) {
	msg := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		AckFor:          ackFor,
		Accepted:        accepted,
		Code:            code,
		Message:         message,
		Rev:             rev,
		Changed:         changed,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
		// Client is not draining; results are advisory, drop.
	}
}

func (s *Server) write(conn *websocket.Conn, b []byte) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b) == nil
}

func (s *Server) closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}
