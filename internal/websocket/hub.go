package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts listing events to
// them. The feed is global; every connected client sees every event.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages queued for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow client; drop it rather than block the hub.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastEvent marshals a listing event and queues it for all clients.
// Must only be called while Run is active.
func (h *Hub) BroadcastEvent(action string, payload interface{}) {
	msg, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode broadcast message")
		return
	}
	h.Broadcast <- msg
}
