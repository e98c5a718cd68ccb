package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/pipecanvas/pkg/block"
	"github.com/matzehuels/pipecanvas/pkg/document"
	"github.com/matzehuels/pipecanvas/pkg/editor"
	"github.com/matzehuels/pipecanvas/pkg/layout"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	sendBuffer   = 16
)

// update is pushed to subscribers after each committed mutation.
type update struct {
	Kind      string                    `json:"kind"`
	BlockID   string                    `json:"block_id,omitempty"`
	Mode      layout.Mode               `json:"mode"`
	Document  *document.Document        `json:"document"`
	Positions map[string]block.Position `json:"positions"`
	Warnings  []document.Warning        `json:"warnings"`
}

func newUpdate(ed *editor.Editor, kind, blockID string) update {
	warnings := ed.Warnings()
	if warnings == nil {
		warnings = []document.Warning{}
	}
	return update{
		Kind:      kind,
		BlockID:   blockID,
		Mode:      ed.Mode(),
		Document:  ed.Document(),
		Positions: ed.Positions(),
		Warnings:  warnings,
	}
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// offer queues msg without blocking. A subscriber that cannot keep up is
// disconnected.
func (s *subscriber) offer(msg []byte) {
	select {
	case s.send <- msg:
	case <-s.done:
	default:
		s.close()
	}
}

func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// readLoop discards client messages until the connection fails.
func (s *subscriber) readLoop() {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.close()
			return
		}
	}
}

// broadcast runs inside the editor's mutation, so the workspace lock is
// held and the editor state is consistent.
func (w *workspace) broadcast(c editor.Change) {
	msg, err := json.Marshal(newUpdate(w.ed, c.Kind, c.BlockID))
	if err != nil {
		return
	}
	w.subsMu.Lock()
	defer w.subsMu.Unlock()
	for sub := range w.subs {
		sub.offer(msg)
	}
}

func (w *workspace) subscribe(sub *subscriber) {
	w.subsMu.Lock()
	w.subs[sub] = struct{}{}
	w.subsMu.Unlock()
}

func (w *workspace) unsubscribe(sub *subscriber) {
	w.subsMu.Lock()
	delete(w.subs, sub)
	w.subsMu.Unlock()
	sub.close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "workspace", ws.id, "err", err)
		return
	}
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	// The initial state is queued under the lock so that no update can
	// slip in between it and the subscription.
	_ = ws.do(func(ed *editor.Editor) error {
		msg, err := json.Marshal(newUpdate(ed, "state", ""))
		if err != nil {
			return err
		}
		sub.send <- msg
		ws.subscribe(sub)
		return nil
	})
	s.logger.Debug("Subscriber connected", "workspace", ws.id)

	go sub.writeLoop()
	sub.readLoop()
	ws.unsubscribe(sub)
	s.logger.Debug("Subscriber disconnected", "workspace", ws.id)
}
