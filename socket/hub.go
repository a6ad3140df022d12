// Package socket pushes document lifecycle events to board clients over
// WebSocket. The shareboard is one shared workspace, so every client sees
// every event.
package socket

import (
	"encoding/json"

	"shareboard/internal/document/model"
	"shareboard/pkg/logger"
)

const (
	CreatedType = "CREATED"
	UpdatedType = "UPDATED"
	DeletedType = "DELETED"
)

// Event is the wire message sent to clients when a document changes.
type Event struct {
	Type     string          `json:"type"`
	DocID    string          `json:"document_id"`
	Document *model.Document `json:"document,omitempty"`
}

type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Notify publishes an event without blocking the caller. If the hub's
// queue is full the event is dropped; clients reconcile by re-fetching
// the document list, so a lost notification is not a lost document.
func (h *Hub) Notify(evt Event) {
	if h == nil {
		return
	}
	select {
	case h.Broadcast <- evt:
	default:
		logger.Sugar.Warnf("Event queue full, dropping %s for doc %s", evt.Type, evt.DocID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			logger.Sugar.Infof("Board client connected (%d total)", len(h.clients))

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				logger.Sugar.Infof("Board client disconnected (%d total)", len(h.clients))
			}

		case evt := <-h.Broadcast:
			payload, err := json.Marshal(evt)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling event: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.Send <- payload:
				default:
					// Slow consumer, drop it rather than stall the board.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}
