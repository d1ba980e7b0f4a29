package httpapi

import (
	"context"
	"log/slog"
	"nami-server/internal/control_plane/httpapi/internal"
	"nami-server/internal/control_plane/usecases"
	"nami-server/internal/infra/async"
	"nami-server/internal/infra/httpserver"
	"nami-server/internal/shared_kernel/domain"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	_writeWait    = 10 * time.Second
	_pongWait     = 60 * time.Second
	_pingInterval = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CommandEventWebSocketController streams every command transition to the
// connected dashboards.
type CommandEventWebSocketController struct {
	broker     async.InternalBroker
	clients    map[*websocket.Conn]bool
	clientsMux sync.RWMutex
	broadcast  chan internal.CommandEventMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	ready      chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewCommandEventWebSocketController(broker async.InternalBroker) *CommandEventWebSocketController {
	ctx, cancel := context.WithCancel(context.Background())

	wsc := &CommandEventWebSocketController{
		broker:     broker,
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan internal.CommandEventMessage, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		ready:      make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}

	go wsc.run()

	return wsc
}

var _ httpserver.Controller = (*CommandEventWebSocketController)(nil)

func (wsc *CommandEventWebSocketController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /ws/command-events", wsc.handleWebSocket())
}

// Ready is closed once the controller listens to the command events topic.
func (wsc *CommandEventWebSocketController) Ready() <-chan struct{} {
	return wsc.ready
}

// ClientCount returns the number of connected dashboards.
func (wsc *CommandEventWebSocketController) ClientCount() int {
	wsc.clientsMux.RLock()
	defer wsc.clientsMux.RUnlock()
	return len(wsc.clients)
}

func (wsc *CommandEventWebSocketController) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", slog.Any("error", err))
			return
		}

		slog.Info("new websocket connection established", slog.String("remote_addr", r.RemoteAddr))

		select {
		case wsc.register <- conn:
		case <-wsc.ctx.Done():
			conn.Close()
			return
		}

		go wsc.handlePingPong(conn)
		go wsc.handleClient(conn)
	}
}

func (wsc *CommandEventWebSocketController) handleClient(conn *websocket.Conn) {
	defer func() {
		select {
		case wsc.unregister <- conn:
		case <-wsc.ctx.Done():
		}
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(_pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(_pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read error", slog.Any("error", err))
			} else {
				slog.Debug("websocket connection closed", slog.Any("error", err))
			}
			return
		}
	}
}

func (wsc *CommandEventWebSocketController) handlePingPong(conn *websocket.Conn) {
	ticker := time.NewTicker(_pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-wsc.ctx.Done():
			return
		case <-ticker.C:
			wsc.clientsMux.RLock()
			_, connected := wsc.clients[conn]
			var err error
			if connected {
				conn.SetWriteDeadline(time.Now().Add(_writeWait))
				err = conn.WriteMessage(websocket.PingMessage, nil)
			}
			wsc.clientsMux.RUnlock()
			if !connected || err != nil {
				return
			}
		}
	}
}

func (wsc *CommandEventWebSocketController) run() {
	subscription, err := wsc.broker.Subscribe(usecases.CommandEventsTopic)
	if err != nil {
		slog.Error("failed to subscribe to command events", slog.Any("error", err))
		return
	}
	defer wsc.broker.Unsubscribe(usecases.CommandEventsTopic, subscription)
	close(wsc.ready)

	for {
		select {
		case <-wsc.ctx.Done():
			return

		case client := <-wsc.register:
			wsc.clientsMux.Lock()
			wsc.clients[client] = true
			total := len(wsc.clients)
			wsc.clientsMux.Unlock()
			slog.Info("websocket client registered", slog.Int("total_clients", total))

		case client := <-wsc.unregister:
			wsc.clientsMux.Lock()
			if _, ok := wsc.clients[client]; ok {
				delete(wsc.clients, client)
				client.Close()
			}
			total := len(wsc.clients)
			wsc.clientsMux.Unlock()
			slog.Info("websocket client unregistered", slog.Int("total_clients", total))

		case message := <-wsc.broadcast:
			wsc.write(message)

		case brokerMsg, ok := <-subscription.Receiver:
			if !ok {
				return
			}
			event, isEvent := brokerMsg.Value.(domain.CommandEvent)
			if !isEvent {
				continue
			}

			select {
			case wsc.broadcast <- internal.FromCommandEvent(event):
			default:
				slog.Warn("broadcast channel full, dropping command event", slog.String("command_id", event.CommandID.String()))
			}
		}
	}
}

func (wsc *CommandEventWebSocketController) write(message internal.CommandEventMessage) {
	wsc.clientsMux.Lock()
	defer wsc.clientsMux.Unlock()

	for client := range wsc.clients {
		client.SetWriteDeadline(time.Now().Add(_writeWait))
		if err := client.WriteJSON(message); err != nil {
			slog.Error("failed to write message to websocket client", slog.Any("error", err))
			client.Close()
			delete(wsc.clients, client)
		}
	}
}

func (wsc *CommandEventWebSocketController) Shutdown() {
	slog.Info("shutting down command event websocket controller")
	wsc.cancel()

	wsc.clientsMux.Lock()
	for client := range wsc.clients {
		client.Close()
		delete(wsc.clients, client)
	}
	wsc.clientsMux.Unlock()
}
