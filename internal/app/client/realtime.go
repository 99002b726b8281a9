// internal/app/client/realtime.go
package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"

	"coachfit/internal/app/client/config"
	"coachfit/internal/domain/event"
)

// ChannelState состояние realtime-канала
type ChannelState int

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s ChannelState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

// Subscription подписка на тип события, используется для отписки
type Subscription struct {
	id        int
	eventType string
}

// RealtimeChannel поддерживает постоянное websocket-соединение с сервером:
// доставку событий подписчикам, keep-alive и переподключение
// с экспоненциальной задержкой.
type RealtimeChannel struct {
	config *config.Config
	log    *slog.Logger
	dialer *websocket.Dialer

	// wmu сериализует записи в соединение
	wmu sync.Mutex

	mu        sync.Mutex
	state     ChannelState
	conn      *websocket.Conn
	token     string
	attempts  int
	closed    bool
	nextSubID int
	handlers  map[string]map[int]func(event.Envelope)
	stopKA    chan struct{}
}

// NewRealtimeChannel создает realtime-канал. Соединение не открывается
// до явного вызова Connect.
func NewRealtimeChannel(cfg *config.Config, log *slog.Logger) *RealtimeChannel {
	return &RealtimeChannel{
		config: cfg,
		log:    log.With("component", "realtime"),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		state:    StateDisconnected,
		handlers: make(map[string]map[int]func(event.Envelope)),
	}
}

// SetToken устанавливает токен для аутентификации канала
func (c *RealtimeChannel) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// State возвращает текущее состояние канала
func (c *RealtimeChannel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected сообщает, открыто ли соединение. Используется индикаторами в UI.
func (c *RealtimeChannel) IsConnected() bool {
	return c.State() == StateConnected
}

// On регистрирует обработчик события указанного типа. Обработчиков
// на один тип может быть несколько, каждый получает свою подписку.
func (c *RealtimeChannel) On(eventType string, fn func(event.Envelope)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	sub := &Subscription{id: c.nextSubID, eventType: eventType}

	if c.handlers[eventType] == nil {
		c.handlers[eventType] = make(map[int]func(event.Envelope))
	}
	c.handlers[eventType][sub.id] = fn

	return sub
}

// Off снимает подписку. Остальные обработчики того же типа не затрагиваются.
func (c *RealtimeChannel) Off(sub *Subscription) {
	if sub == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if handlers, ok := c.handlers[sub.eventType]; ok {
		delete(handlers, sub.id)
		if len(handlers) == 0 {
			delete(c.handlers, sub.eventType)
		}
	}
}

// Connect открывает соединение. Повторный вызов при открытом или
// открывающемся канале ничего не делает. Без токена подключение
// откладывается до аутентификации. Явный Connect снимает запрет
// на переподключение, выставленный в Close.
func (c *RealtimeChannel) Connect() {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return
	}
	c.closed = false
	if c.token == "" {
		c.log.Debug("Подключение отложено, нет токена")
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	token := c.token
	c.mu.Unlock()

	conn, _, err := c.dialer.Dial(c.wsURL(token), nil)
	if err != nil {
		c.log.Warn("Ошибка подключения realtime-канала", "error", err)
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0
	c.stopKA = make(chan struct{})
	stopKA := c.stopKA
	c.mu.Unlock()

	c.log.Info("Realtime-канал подключен")

	go c.readLoop(conn)
	go c.keepaliveLoop(stopKA)
}

// Send отправляет событие на сервер. При закрытом канале событие
// отбрасывается без ошибки, очередь недоставленных не ведется.
func (c *RealtimeChannel) Send(env event.Envelope) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()

	if state != StateConnected || conn == nil {
		c.log.Debug("Событие отброшено, канал не подключен", "type", env.Type)
		return nil
	}

	c.wmu.Lock()
	err := conn.WriteJSON(env)
	c.wmu.Unlock()
	if err != nil {
		return fmt.Errorf("ошибка отправки события: %w", err)
	}

	return nil
}

// Close намеренно разрывает соединение и подавляет автоматические
// переподключения до следующего явного Connect
func (c *RealtimeChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	if c.stopKA != nil {
		close(c.stopKA)
		c.stopKA = nil
	}
	c.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	}
}

func (c *RealtimeChannel) wsURL(token string) string {
	scheme := "ws://"
	if c.config.EnableTLS {
		scheme = "wss://"
	}
	return scheme + c.config.ServerAddress + "/api/v1/ws?token=" + token
}

func (c *RealtimeChannel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}

		var env event.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// Битый кадр отбрасывается, соединение живет дальше
			c.log.Warn("Получен некорректный кадр", "error", err)
			continue
		}

		// Ping сервера обслуживается каналом и до подписчиков не доходит
		if env.Type == event.TypePing {
			pong, _ := event.NewEnvelope(event.TypePong, nil)
			if err := c.Send(pong); err != nil {
				c.log.Warn("Ошибка ответа на ping", "error", err)
			}
			continue
		}

		c.dispatch(env)
	}
}

// dispatch вызывает обработчики события последовательно, в порядке
// регистрации подписок
func (c *RealtimeChannel) dispatch(env event.Envelope) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.handlers[env.Type]))
	for id := range c.handlers[env.Type] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(event.Envelope), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, c.handlers[env.Type][id])
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(env)
	}
}

func (c *RealtimeChannel) keepaliveLoop(stop chan struct{}) {
	ticker := time.NewTicker(c.config.KeepaliveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ping, _ := event.NewEnvelope(event.TypePing, nil)
			if err := c.Send(ping); err != nil {
				c.log.Warn("Ошибка keep-alive", "error", err)
				return
			}
		}
	}
}

func (c *RealtimeChannel) handleDisconnect(conn *websocket.Conn, cause error) {
	conn.Close()

	c.mu.Lock()
	if c.conn != conn {
		// Соединение уже заменено или закрыто явно
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.stopKA != nil {
		close(c.stopKA)
		c.stopKA = nil
	}
	closed := c.closed
	c.state = StateDisconnected
	c.mu.Unlock()

	if closed {
		return
	}

	c.log.Warn("Realtime-канал разорван", "error", cause)
	c.scheduleReconnect()
}

// scheduleReconnect планирует переподключение с экспоненциальной
// задержкой base*2^(attempts-1). После исчерпания попыток канал
// остается отключенным до следующего явного Connect.
func (c *RealtimeChannel) scheduleReconnect() {
	c.mu.Lock()
	if c.closed || c.state == StateConnected || c.state == StateConnecting || c.state == StateReconnecting {
		c.mu.Unlock()
		return
	}

	c.attempts++
	if c.attempts > c.config.MaxReconnects {
		c.log.Error("Попытки переподключения исчерпаны", "attempts", c.attempts-1)
		c.attempts = 0
		c.mu.Unlock()
		return
	}

	delay := c.config.ReconnectBase * time.Duration(1<<(c.attempts-1))
	c.state = StateReconnecting
	attempt := c.attempts
	c.mu.Unlock()

	c.log.Info("Переподключение запланировано",
		"attempt", attempt,
		"delay", delay,
	)

	time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.closed || c.state != StateReconnecting {
			c.mu.Unlock()
			return
		}
		c.state = StateDisconnected
		c.mu.Unlock()

		c.Connect()
	})
}
