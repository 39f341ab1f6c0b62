package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"
)

var portalUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

var wsAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// PortalWebSocket subscribes a wallet to live application updates. Browser
// WebSocket clients cannot set headers, so the address comes in as a query
// parameter. The read loop only drains control frames; all data flows
// server to client.
func PortalWebSocket(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if !wsAddressPattern.MatchString(address) {
		http.Error(w, "a valid wallet address is required", http.StatusUnauthorized)
		return
	}

	conn, err := portalUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	portalHub.Register(address, conn)
	defer portalHub.Unregister(address)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
