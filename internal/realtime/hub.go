package realtime

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/example/foodhub/internal/models"
)

// Event names pushed to connected clients.
const (
	EventOrderCreated     = "orderCreated"
	EventOrderUpdated     = "orderUpdated"
	EventDeliveryTracking = "deliveryTracking"
)

// Envelope wraps an order document for the wire.
type Envelope struct {
	Event        string        `json:"event"`
	OrderID      string        `json:"order_id"`
	UserID       string        `json:"user_id"`
	RestaurantID string        `json:"restaurant_id"`
	Order        *models.Order `json:"order"`
}

// Conn is the subset of a websocket connection the hub needs. Tests register
// fakes through it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type client struct {
	id    uuid.UUID
	role  string
	rooms map[uuid.UUID]struct{}

	// writeMu serializes writes to the connection; the websocket transport
	// does not allow concurrent writers.
	writeMu sync.Mutex
}

// Hub fans order events out to connected clients: per-order rooms plus the
// placing user's and owning restaurant's connections. Delivery is
// fire-and-forget; a disconnected client catches up on its next poll.
type Hub struct {
	mu          sync.RWMutex
	clients     map[Conn]*client
	users       map[uuid.UUID]map[Conn]struct{}
	restaurants map[uuid.UUID]map[Conn]struct{}
	rooms       map[uuid.UUID]map[Conn]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[Conn]*client),
		users:       make(map[uuid.UUID]map[Conn]struct{}),
		restaurants: make(map[uuid.UUID]map[Conn]struct{}),
		rooms:       make(map[uuid.UUID]map[Conn]struct{}),
	}
}

// Register adds an authenticated connection to the hub.
func (h *Hub) Register(conn Conn, id uuid.UUID, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[conn] = &client{id: id, role: role, rooms: make(map[uuid.UUID]struct{})}

	switch role {
	case models.RoleUser:
		if h.users[id] == nil {
			h.users[id] = make(map[Conn]struct{})
		}
		h.users[id][conn] = struct{}{}
	case models.RoleRestaurant:
		if h.restaurants[id] == nil {
			h.restaurants[id] = make(map[Conn]struct{})
		}
		h.restaurants[id][conn] = struct{}{}
	}
}

// Unregister removes a connection and all its room memberships.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cl, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)

	switch cl.role {
	case models.RoleUser:
		delete(h.users[cl.id], conn)
		if len(h.users[cl.id]) == 0 {
			delete(h.users, cl.id)
		}
	case models.RoleRestaurant:
		delete(h.restaurants[cl.id], conn)
		if len(h.restaurants[cl.id]) == 0 {
			delete(h.restaurants, cl.id)
		}
	}

	for orderID := range cl.rooms {
		delete(h.rooms[orderID], conn)
		if len(h.rooms[orderID]) == 0 {
			delete(h.rooms, orderID)
		}
	}
}

// JoinOrder subscribes a connection to a specific order's room.
func (h *Hub) JoinOrder(conn Conn, orderID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cl, ok := h.clients[conn]
	if !ok {
		return
	}

	cl.rooms[orderID] = struct{}{}
	if h.rooms[orderID] == nil {
		h.rooms[orderID] = make(map[Conn]struct{})
	}
	h.rooms[orderID][conn] = struct{}{}
}

// LeaveOrder unsubscribes a connection from an order's room.
func (h *Hub) LeaveOrder(conn Conn, orderID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cl, ok := h.clients[conn]
	if !ok {
		return
	}

	delete(cl.rooms, orderID)
	delete(h.rooms[orderID], conn)
	if len(h.rooms[orderID]) == 0 {
		delete(h.rooms, orderID)
	}
}

// BroadcastOrderEvent pushes an order event to the order's room, the placing
// user and the owning restaurant. Write failures are logged and ignored.
func (h *Hub) BroadcastOrderEvent(event string, order *models.Order) {
	if order == nil {
		return
	}

	envelope := Envelope{
		Event:        event,
		OrderID:      order.ID.String(),
		UserID:       order.UserID.String(),
		RestaurantID: order.RestaurantID.String(),
		Order:        order,
	}

	h.mu.RLock()
	targets := make(map[Conn]*client)
	collect := func(set map[Conn]struct{}) {
		for conn := range set {
			if cl, ok := h.clients[conn]; ok {
				targets[conn] = cl
			}
		}
	}
	collect(h.rooms[order.ID])
	collect(h.users[order.UserID])
	collect(h.restaurants[order.RestaurantID])
	h.mu.RUnlock()

	for conn, cl := range targets {
		cl.writeMu.Lock()
		err := conn.WriteJSON(envelope)
		cl.writeMu.Unlock()
		if err != nil {
			log.Printf("[Realtime] failed to deliver %s: %v", event, err)
		}
	}
}
