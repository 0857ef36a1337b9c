package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID   uint
	Role string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user. Takes the write lock
// because stalled clients are evicted in place.
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToRole sends a message to all connected users with a given role.
// Takes the write lock because stalled clients are evicted in place.
func (h *Hub) BroadcastToRole(role string, message []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.Role == role {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingCreated notifies a dealer that a test ride was requested
type BookingCreated struct {
	BookingID   uint   `json:"bookingId"`
	BikeName    string `json:"bikeName"`
	UserName    string `json:"userName"`
	BookingDate string `json:"bookingDate"`
	TimeSlot    string `json:"timeSlot"`
}

// BookingStatusChanged notifies a customer that a dealer acted on a booking
type BookingStatusChanged struct {
	BookingID       uint   `json:"bookingId"`
	BikeName        string `json:"bikeName"`
	Status          string `json:"status"`
	DealerResponse  string `json:"dealerResponse,omitempty"`
	RescheduledDate string `json:"rescheduledDate,omitempty"`
	RescheduledTime string `json:"rescheduledTime,omitempty"`
}

// InquiryReplied notifies a customer of a dealer reply to their inquiry
type InquiryReplied struct {
	InquiryID uint   `json:"inquiryId"`
	BikeName  string `json:"bikeName"`
	Reply     string `json:"reply"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, role string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   userID,
		Role: role,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case "ping":
			c.sendPong()
		default:
			log.Printf("Unhandled message type from client %d: %s", c.ID, wsMessage.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) sendPong() {
	data, err := json.Marshal(WebSocketMessage{Type: "pong"})
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// SendBookingCreated sends a new booking notification to the dealer's user
func (hub *Hub) SendBookingCreated(dealerUserID uint, created BookingCreated) {
	message := WebSocketMessage{
		Type: "booking_created",
		Data: created,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking created: %v", err)
		return
	}

	hub.BroadcastToUser(dealerUserID, data)
}

// SendBookingStatusChanged sends a booking status notification to the customer
func (hub *Hub) SendBookingStatusChanged(userID uint, changed BookingStatusChanged) {
	message := WebSocketMessage{
		Type: "booking_status_changed",
		Data: changed,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking status changed: %v", err)
		return
	}

	hub.BroadcastToUser(userID, data)
}

// SendInquiryReplied sends an inquiry reply notification to the customer
func (hub *Hub) SendInquiryReplied(userID uint, replied InquiryReplied) {
	message := WebSocketMessage{
		Type: "inquiry_replied",
		Data: replied,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling inquiry replied: %v", err)
		return
	}

	hub.BroadcastToUser(userID, data)
}
