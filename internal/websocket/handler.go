package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches one staff console connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, watchSession string) {
	if watchSession == "" {
		watchSession = watchAll
	}
	client := &Client{Hub: hub, Conn: c, WatchSession: watchSession, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
