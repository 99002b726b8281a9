package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
	"coachfit/internal/domain/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 32
)

// Hub держит активные websocket-соединения, сгруппированные по пользователю,
// и доставляет им события доменных сервисов.
type Hub struct {
	session session.Servicer
	log     *slog.Logger

	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[int]map[*client]struct{}
	closed  bool
}

type client struct {
	userID int
	conn   *websocket.Conn
	send   chan event.Envelope
}

func NewHub(session session.Servicer, log *slog.Logger) *Hub {
	return &Hub{
		session: session,
		log:     log.With("component", "ws_hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[int]map[*client]struct{}),
	}
}

// Handler апгрейдит HTTP-запрос до websocket. Токен передается
// в query-параметре, так как браузерные клиенты не могут выставить
// заголовок Authorization на websocket-запросе.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := h.session.Validate(r.Context(), token)
		if err != nil {
			h.log.Warn("ws auth failed", "remote_addr", r.RemoteAddr, "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error("ws upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
			return
		}

		c := &client{
			userID: userID,
			conn:   conn,
			send:   make(chan event.Envelope, sendBuffer),
		}

		h.register(c)
		h.log.Info("ws client connected", "user_id", userID, "remote_addr", r.RemoteAddr)

		go c.writeLoop(h)
		go c.readLoop(h)
	}
}

// Publish доставляет событие всем соединениям пользователя.
// Клиент с переполненным буфером отключается, медленный потребитель
// не должен блокировать остальных.
func (h *Hub) Publish(userID int, env event.Envelope) {
	h.mu.RLock()
	conns := make([]*client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- env:
		default:
			h.log.Warn("ws send buffer full, dropping client", "user_id", userID)
			h.unregister(c)
		}
	}
}

// Close закрывает все соединения
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, conns := range h.clients {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.clients = make(map[int]map[*client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		close(c.send)
	}
}

// ClientCount число активных соединений пользователя
func (h *Hub) ClientCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(c.send)
		return
	}

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if ok {
		if _, exists := conns[c]; exists {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
			close(c.send)
		}
	}
	h.mu.Unlock()
}

func (c *client) readLoop(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.log.Info("ws client disconnected", "user_id", c.userID)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("ws read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var env event.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// Битый кадр не рвет соединение
			h.log.Warn("ws malformed frame dropped", "user_id", c.userID, "error", err)
			continue
		}

		switch env.Type {
		case event.TypePing:
			pong, _ := event.NewEnvelope(event.TypePong, nil)
			select {
			case c.send <- pong:
			default:
			}
		default:
			h.log.Debug("ws frame received", "user_id", c.userID, "type", env.Type)
		}
	}
}

func (c *client) writeLoop(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(env); err != nil {
				h.log.Warn("ws write error", "user_id", c.userID, "error", err)
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
