package events

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"ircbridge/internal/app/adapters/metrics"
	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

const broadcastBuffer = 256

// Hub fans engine events out to websocket subscribers. It implements
// the event sink: Emit never blocks a session worker, dropping the
// event instead when the hub or a client cannot keep up.
type Hub struct {
	log logger.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]bool
}

type envelope struct {
	Topic string         `json:"topic"`
	Event ports.IrcEvent `json:"event"`
}

func New(log logger.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client, broadcastBuffer),
		broadcast:  make(chan []byte, broadcastBuffer),
		clients:    make(map[*Client]bool),
	}
}

// Run services registration and fan-out; started once at bootstrap.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			if h.clients[client] {
				delete(h.clients, client)
				close(client.send)
				metrics.WebsocketClients.Set(float64(len(h.clients)))
			}
		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					metrics.EventsDropped.Inc()
					h.log.Warn("dropping event for slow websocket client")
				}
			}
		}
	}
}

// Emit marshals the event once and hands it to the run loop. With no
// subscribers the event simply vanishes.
func (h *Hub) Emit(topic string, event ports.IrcEvent) {
	payload, err := json.Marshal(envelope{Topic: topic, Event: event})
	if err != nil {
		h.log.Error("failed to marshal event", err, slog.String("type", event.EventType()))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		metrics.EventsDropped.Inc()
		h.log.Warn("event hub backlog full, dropping event", slog.String("type", event.EventType()))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and subscribes it to the stream.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
