package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/leasezero/leasezero-backend/internal/models"
)

// ApplicationEvent is the payload pushed to portal clients when an
// application record changes.
type ApplicationEvent struct {
	Type        string             `json:"type"`
	Application models.Application `json:"application"`
	Timestamp   time.Time          `json:"timestamp"`
}

// PortalConn is the minimal interface our WebSocket implementation must satisfy.
type PortalConn interface {
	WriteJSON(v interface{}) error
	ReadJSON(dest interface{}) error
	Close() error
}

// portalConnection tracks a single wallet's WebSocket connection.
type portalConnection struct {
	address string
	conn    PortalConn
}

// Hub is a registry of connected portal clients keyed by lowercased wallet
// address. Both the tenant and the owning landlord of an application get the
// same event.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*portalConnection
}

func NewHub() *Hub {
	return &Hub{connections: make(map[string]*portalConnection)}
}

// Register registers or replaces a wallet's connection.
func (h *Hub) Register(address string, conn PortalConn) {
	key := strings.ToLower(address)
	h.mu.Lock()
	h.connections[key] = &portalConnection{address: key, conn: conn}
	h.mu.Unlock()
}

// Unregister removes a wallet's connection.
func (h *Hub) Unregister(address string) {
	h.mu.Lock()
	delete(h.connections, strings.ToLower(address))
	h.mu.Unlock()
}

// BroadcastApplication pushes an update event to the application's tenant.
// Best effort: a slow or dead connection never blocks the mutation path.
func (h *Hub) BroadcastApplication(app models.Application) {
	h.send(app.TenantAddress, ApplicationEvent{
		Type:        "application_updated",
		Application: app,
		Timestamp:   time.Now().UTC(),
	})
}

// BroadcastToLandlord pushes the same event to the property owner's
// connection, resolved by the caller who knows the ownership.
func (h *Hub) BroadcastToLandlord(ownerAddress string, app models.Application) {
	h.send(ownerAddress, ApplicationEvent{
		Type:        "application_updated",
		Application: app,
		Timestamp:   time.Now().UTC(),
	})
}

func (h *Hub) send(address string, event ApplicationEvent) {
	h.mu.RLock()
	pc, ok := h.connections[strings.ToLower(address)]
	h.mu.RUnlock()
	if !ok {
		return
	}

	go func(c PortalConn) {
		if err := c.WriteJSON(event); err != nil {
			log.Printf("error writing application event to websocket: %v", err)
		}
	}(pc.conn)
}
