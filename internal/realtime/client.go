package realtime

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sociable-dev/sociable/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 32
)

// Client wraps one websocket connection as a hub Session. All writes go
// through the send channel so only the write pump touches the socket.
type Client struct {
	hub    *Hub
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan Event
	done   chan struct{}
	once   sync.Once
}

// Deliver queues an event for the write pump without blocking. A client
// that cannot keep up is shut down rather than allowed to stall the sender.
// Deliver runs under the hub's per-user lock, so the shutdown (which calls
// back into the hub) is deferred to a goroutine.
func (c *Client) Deliver(ev Event) {
	select {
	case <-c.done:
	case c.send <- ev:
	default:
		go c.shutdown()
	}
}

func (c *Client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.hub.Leave(c.userID, c)
		c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer c.shutdown()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			// Client disconnected or errored
			return
		}
	}
}

// Handler upgrades authenticated requests and registers them with the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router level
			},
		},
	}
}

func (h *Handler) Serve(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:    h.hub,
		userID: userID,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
		done:   make(chan struct{}),
	}

	h.hub.Join(userID, client)

	go client.writePump()
	go client.readPump()
}
