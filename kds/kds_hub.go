package kds

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-ops/events"
)

// writeWait bounds a single write so a client that stops reading cannot hold
// up publishing.
const writeWait = 5 * time.Second

type client struct {
	companyID uint
	role      string
}

// Hub holds the websocket clients of every company and fans lifecycle
// events out to the clients of the company they belong to.
type Hub struct {
	clients   map[*websocket.Conn]client
	mutex     sync.Mutex
	log       logrus.FieldLogger
	writeWait time.Duration
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]client),
		log:       log,
		writeWait: writeWait,
	}
}

// RegisterClient adds a connection for a company and role.
func (h *Hub) RegisterClient(conn *websocket.Conn, companyID uint, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = client{companyID: companyID, role: role}
}

// UnregisterClient drops and closes a connection.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish implements events.Publisher. A client whose write fails or times
// out is dropped.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if c.companyID != e.CompanyID {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.WithFields(logrus.Fields{"role": c.role, "event": e.Type}).Warnf("Error sending message to client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	return nil
}
