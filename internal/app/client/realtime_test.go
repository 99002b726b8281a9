package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachfit/internal/app/client/config"
	"coachfit/internal/domain/event"
)

// wsTestServer принимает websocket-соединения и отдает их тесту
type wsTestServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn

	accepted atomic.Int32
	connCh   chan *websocket.Conn
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()

	ts := &wsTestServer{
		connCh: make(chan *websocket.Conn, 8),
	}
	ts.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.accepted.Add(1)
		ts.mu.Lock()
		ts.conns = append(ts.conns, conn)
		ts.mu.Unlock()
		ts.connCh <- conn
	}))

	t.Cleanup(func() {
		ts.mu.Lock()
		for _, conn := range ts.conns {
			conn.Close()
		}
		ts.mu.Unlock()
		ts.srv.Close()
	})

	return ts
}

func (ts *wsTestServer) address() string {
	return strings.TrimPrefix(ts.srv.URL, "http://")
}

func (ts *wsTestServer) waitConn(t *testing.T) *websocket.Conn {
	t.Helper()

	select {
	case conn := <-ts.connCh:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("client did not connect")
		return nil
	}
}

func testChannelConfig(address string) *config.Config {
	return &config.Config{
		ServerAddress:  address,
		ReconnectBase:  10 * time.Millisecond,
		MaxReconnects:  2,
		KeepaliveEvery: time.Minute,
	}
}

func newTestChannel(t *testing.T, address string) *RealtimeChannel {
	t.Helper()

	ch := NewRealtimeChannel(testChannelConfig(address), testLogger())
	t.Cleanup(ch.Close)
	return ch
}

func waitForState(t *testing.T, ch *RealtimeChannel, want ChannelState) {
	t.Helper()

	require.Eventually(t, func() bool {
		return ch.State() == want
	}, 2*time.Second, 10*time.Millisecond, "expected state %s, got %s", want, ch.State())
}

func TestRealtime_ConnectWithoutTokenIsDeferred(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())

	ch.Connect()

	assert.Equal(t, StateDisconnected, ch.State())
	assert.Equal(t, int32(0), ts.accepted.Load())
}

func TestRealtime_ConnectIsIdempotent(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	ch.Connect()
	ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	// Повторный вызов не открывает второе соединение
	ch.Connect()
	ch.Connect()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(1), ts.accepted.Load())
}

func TestRealtime_DispatchToSubscribers(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	var mu sync.Mutex
	var first, second []string
	ch.On(event.TypePlanUpdated, func(env event.Envelope) {
		mu.Lock()
		first = append(first, env.Type)
		mu.Unlock()
	})
	sub := ch.On(event.TypePlanUpdated, func(env event.Envelope) {
		mu.Lock()
		second = append(second, env.Type)
		mu.Unlock()
	})

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	env, err := event.NewEnvelope(event.TypePlanUpdated, map[string]string{"planId": "p1"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(env))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(first) == 1 && len(second) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// После отписки второй обработчик больше не вызывается
	ch.Off(sub)
	require.NoError(t, conn.WriteJSON(env))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(first) == 2
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, second, 1)
}

func TestRealtime_PingAnsweredAndInvisible(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	var pingSeen atomic.Int32
	ch.On(event.TypePing, func(event.Envelope) {
		pingSeen.Add(1)
	})

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	ping, err := event.NewEnvelope(event.TypePing, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ping))

	// Канал отвечает pong сам
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong event.Envelope
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, event.TypePong, pong.Type)

	// Подписчики ping не видят
	assert.Equal(t, int32(0), pingSeen.Load())
}

func TestRealtime_MalformedFrameDropped(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	received := make(chan event.Envelope, 1)
	ch.On(event.TypeNotification, func(env event.Envelope) {
		received <- env
	})

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{oops`)))

	// Соединение переживает битый кадр
	env, err := event.NewEnvelope(event.TypeNotification, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(env))

	select {
	case got := <-received:
		assert.Equal(t, event.TypeNotification, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered after malformed frame")
	}

	assert.Equal(t, StateConnected, ch.State())
}

func TestRealtime_SendWhenDisconnectedDrops(t *testing.T) {
	ch := newTestChannel(t, "127.0.0.1:1")
	ch.SetToken("token")

	env, err := event.NewEnvelope(event.TypeNewMessage, map[string]string{"text": "hi"})
	require.NoError(t, err)

	require.NoError(t, ch.Send(env))
}

func TestRealtime_SendDeliversToServer(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	env, err := event.NewEnvelope(event.TypeNewMessage, map[string]string{"text": "hi"})
	require.NoError(t, err)
	require.NoError(t, ch.Send(env))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got event.Envelope
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, event.TypeNewMessage, got.Type)
}

func TestRealtime_ReconnectAfterDrop(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	// Сервер рвет соединение, клиент переподключается сам
	conn.Close()

	ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	assert.Equal(t, int32(2), ts.accepted.Load())
}

func TestRealtime_ReconnectGivesUpAfterMaxAttempts(t *testing.T) {
	// Адрес без слушателя, все попытки подключения проваливаются
	ch := newTestChannel(t, "127.0.0.1:1")
	ch.SetToken("token")

	ch.Connect()

	// base=10ms, 2 попытки: задержки 10ms и 20ms
	require.Eventually(t, func() bool {
		return ch.State() == StateDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateDisconnected, ch.State())
}

func TestRealtime_CloseStopsReconnect(t *testing.T) {
	ts := newWSTestServer(t)
	ch := NewRealtimeChannel(testChannelConfig(ts.address()), testLogger())
	ch.SetToken("token")

	ch.Connect()
	conn := ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	ch.Close()
	conn.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateDisconnected, ch.State())
	assert.Equal(t, int32(1), ts.accepted.Load())
}

func TestRealtime_ConnectAfterCloseReopens(t *testing.T) {
	ts := newWSTestServer(t)
	ch := newTestChannel(t, ts.address())
	ch.SetToken("token")

	ch.Connect()
	ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	ch.Close()
	waitForState(t, ch, StateDisconnected)
	assert.False(t, ch.IsConnected())

	// Явный Connect после Close открывает новое соединение
	ch.Connect()
	ts.waitConn(t)
	waitForState(t, ch, StateConnected)

	assert.True(t, ch.IsConnected())
	assert.Equal(t, int32(2), ts.accepted.Load())
}
