package dev

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Live-update event names sent to connected browsers.
const (
	// EventPropsEndpoints carries the pipe-delimited list of resolvable
	// props endpoints. Sent whenever the set changes.
	EventPropsEndpoints = "props-endpoints"

	// EventFunctionUpdate carries the logical path of an already-served
	// function whose contents changed.
	EventFunctionUpdate = "function-update"
)

// UpdateEvent is one named live-update message.
type UpdateEvent struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

// Hub manages WebSocket connections for live updates.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader

	// onClients, if set, is called with the client count after every
	// connect and disconnect.
	onClients func(int)
}

// NewHub creates a new live-update hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// OnClients sets the connected-count callback.
func (h *Hub) OnClients(fn func(int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClients = fn
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.addClient(conn)

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.removeClient(conn)
	conn.Close()
}

// NotifyPropsEndpoints broadcasts the current set of resolvable props
// endpoints as a pipe-delimited list.
func (h *Hub) NotifyPropsEndpoints(endpoints []string) {
	h.broadcast(UpdateEvent{
		Event: EventPropsEndpoints,
		Data:  strings.Join(endpoints, "|"),
	})
}

// NotifyFunctionUpdate broadcasts the logical path of a changed function.
func (h *Hub) NotifyFunctionUpdate(route string) {
	h.broadcast(UpdateEvent{
		Event: EventFunctionUpdate,
		Data:  route,
	})
}

// broadcast sends an event to all connected clients.
func (h *Hub) broadcast(ev UpdateEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.removeClient(client)
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	fn := h.onClients
	h.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	_, present := h.clients[conn]
	delete(h.clients, conn)
	n := len(h.clients)
	fn := h.onClients
	h.mu.Unlock()

	if present && fn != nil {
		fn(n)
	}
}

// injectClient rewrites a proxied HTML response to carry ClientScript.
// Non-HTML responses pass through untouched.
func injectClient(resp *http.Response) error {
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()

	injected := injectClientScript(string(body))
	resp.Body = io.NopCloser(strings.NewReader(injected))
	resp.ContentLength = int64(len(injected))
	resp.Header.Set("Content-Length", strconv.Itoa(len(injected)))
	return nil
}

// injectClientScript places ClientScript before </body>, falling back
// to </html>, then to plain append.
func injectClientScript(body string) string {
	if idx := strings.LastIndex(body, "</body>"); idx != -1 {
		return body[:idx] + ClientScript + body[idx:]
	}
	if idx := strings.LastIndex(body, "</html>"); idx != -1 {
		return body[:idx] + ClientScript + body[idx:]
	}
	return body + ClientScript
}

// ClientScript is the JavaScript injected into pages in development.
// It keeps the props endpoint list current and reloads on function
// changes.
const ClientScript = `
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/__vitedge/reload');

        ws.onopen = function() {
            console.log('[vitedge] Live updates connected');
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.event) {
                case 'props-endpoints':
                    window.__VITEDGE_PROPS__ = msg.data ? msg.data.split('|') : [];
                    break;

                case 'function-update':
                    console.log('[vitedge] Function changed:', msg.data);
                    location.reload();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
