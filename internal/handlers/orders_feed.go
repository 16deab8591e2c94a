package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// OrderEvent is the message pushed to connected admin clients. Clients treat
// any event as a refetch signal; no merging happens on either side.
type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
}

// OrderFeed is a websocket hub for the admin orders screen.
type OrderFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewOrderFeed() *OrderFeed {
	return &OrderFeed{clients: make(map[*websocket.Conn]bool)}
}

// Handler upgrades the connection and parks it until the client goes away.
// Inbound messages are drained and ignored.
func (f *OrderFeed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("[FEED] [ERROR] websocket upgrade failed:", err)
			return
		}
		defer conn.Close()

		f.mu.Lock()
		f.clients[conn] = true
		f.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				f.mu.Lock()
				delete(f.clients, conn)
				f.mu.Unlock()
				break
			}
		}
	}
}

// Broadcast pushes the event to every connected client. A dead connection is
// dropped on the next read; write errors here are ignored.
func (f *OrderFeed) Broadcast(event OrderEvent) {
	if f == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		_ = client.WriteJSON(event)
	}
}
