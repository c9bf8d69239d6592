package websocket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/robot-server/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound messages buffered per client before it is dropped.
	sendBuffer = 256
)

// Events sent by the hub itself
const (
	EventStateUpdate = "state_update"
	EventSnapshot    = "snapshot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one JSON frame pushed to subscribers of a game
type Message struct {
	GameID    string            `json:"game_id"`
	Event     string            `json:"event"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// gameKey folds a game ID to the form subscribers are stored under. Game IDs
// are case-insensitive.
func gameKey(gameID string) string {
	return strings.ToLower(gameID)
}

// Client is one subscribed WebSocket connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

type countRequest struct {
	gameID string
	reply  chan int
}

// Hub keeps the subscribers of every game and fans messages out to them.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients by game ID
	games map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.counts:
			req.reply <- len(h.games[req.gameID])

		case <-h.done:
			for gameID, clients := range h.games {
				for client := range clients {
					close(client.send)
				}
				delete(h.games, gameID)
			}
			return
		}
	}
}

// Stop ends the event loop and closes every subscriber
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// ServeWS upgrades the request and subscribes the connection to gameID.
// When initial is not nil it is sent to the client before any broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, initial *engine.GameState) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gameID: gameKey(gameID),
	}

	if initial != nil {
		if data, err := json.Marshal(&Message{GameID: gameID, Event: EventSnapshot, GameState: initial}); err == nil {
			client.send <- data
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastState sends a game state update to all clients of a game
func (h *Hub) BroadcastState(gameID string, state *engine.GameState) {
	h.send(&Message{GameID: gameID, Event: EventStateUpdate, GameState: state})
}

// BroadcastEvent sends a named event to all clients of a game
func (h *Hub) BroadcastEvent(gameID string, event string, state *engine.GameState, data interface{}) {
	h.send(&Message{GameID: gameID, Event: event, GameState: state, Data: data})
}

// ClientCount returns the number of subscribers of a game
func (h *Hub) ClientCount(gameID string) int {
	req := countRequest{gameID: gameKey(gameID), reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) send(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// registerClient adds a client to a game
func (h *Hub) registerClient(client *Client) {
	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true

	log.WithFields(log.Fields{
		"game":    client.gameID,
		"clients": len(h.games[client.gameID]),
	}).Debug("websocket client registered")
}

// unregisterClient removes a client from a game
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.games[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.games, client.gameID)
	}

	log.WithFields(log.Fields{
		"game":    client.gameID,
		"clients": len(clients),
	}).Debug("websocket client unregistered")
}

// broadcastMessage sends a message to all clients of a game
func (h *Hub) broadcastMessage(message *Message) {
	clients, ok := h.games[gameKey(message.GameID)]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("failed to marshal broadcast message")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection so control frames are processed.
// Clients do not send commands over the socket.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithField("game", c.gameID).WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
