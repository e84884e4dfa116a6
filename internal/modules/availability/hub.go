package availability

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many events a client may lag behind before new ones are dropped.
	sendBuffer = 32
)

// client owns one websocket. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; a full queue drops v.
func (c *client) enqueue(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// Hub keeps one live connection per user and fans availability events out to all of them.
type Hub struct {
	connections map[string]*client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*client),
	}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) *client {
	c := newClient(conn)

	h.mutex.Lock()
	if old, exists := h.connections[userID]; exists && old != nil {
		old.close()
	}
	h.connections[userID] = c
	h.mutex.Unlock()

	go c.writePump()
	return c
}

// Unregister closes c and drops userID only while c is still its current connection.
func (h *Hub) Unregister(userID string, c *client) {
	h.mutex.Lock()
	if cur, exists := h.connections[userID]; exists && cur == c {
		delete(h.connections, userID)
	}
	h.mutex.Unlock()
	c.close()
}

// Broadcast queues message for every connection and returns how many accepted it.
func (h *Hub) Broadcast(message any) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	queued := 0
	for _, c := range h.connections {
		if c.enqueue(message) {
			queued++
		}
	}
	return queued
}

func (h *Hub) Publish(ev Event) {
	h.Broadcast(ev)
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			c.close()
		}
		delete(h.connections, userID)
	}
}
