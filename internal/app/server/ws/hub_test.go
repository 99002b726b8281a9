package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"coachfit/internal/domain/event"
)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Create(ctx context.Context, userID int) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Validate(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func (m *MockSession) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newTestHub(t *testing.T) (*Hub, *MockSession, *httptest.Server) {
	t.Helper()

	session := new(MockSession)
	hub := NewHub(session, slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, session, srv
}

func wsURL(srv *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http")
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func waitForClients(t *testing.T, hub *Hub, userID, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(userID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d clients for user %d, got %d", want, userID, hub.ClientCount(userID))
}

func TestHub_RejectsMissingToken(t *testing.T) {
	_, _, srv := newTestHub(t)

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_RejectsInvalidToken(t *testing.T) {
	_, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "bad-token").Return(0, errors.New("session not found"))

	//nolint:bodyclose
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "bad-token"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishDeliversToUser(t *testing.T) {
	hub, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "token-7").Return(7, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token-7"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 7, 1)

	env, err := event.NewEnvelope(event.TypeTaskUpdated, map[string]string{"taskId": "abc"})
	require.NoError(t, err)
	hub.Publish(7, env)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got event.Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event.TypeTaskUpdated, got.Type)
	assert.JSONEq(t, `{"taskId":"abc"}`, string(got.Data))
}

func TestHub_PublishSkipsOtherUsers(t *testing.T) {
	hub, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "token-1").Return(1, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token-1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1, 1)

	env, err := event.NewEnvelope(event.TypePlanUpdated, nil)
	require.NoError(t, err)
	hub.Publish(99, env)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var got event.Envelope
	err = conn.ReadJSON(&got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "timeout"))
}

func TestHub_PingAnsweredWithPong(t *testing.T) {
	hub, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "token-3").Return(3, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token-3"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 3, 1)

	ping, err := event.NewEnvelope(event.TypePing, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(ping))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got event.Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event.TypePong, got.Type)
}

func TestHub_MalformedFrameKeepsConnection(t *testing.T) {
	hub, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "token-5").Return(5, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token-5"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 5, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	// Соединение переживает битый кадр и продолжает получать события
	env, err := event.NewEnvelope(event.TypeNotification, nil)
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)
	hub.Publish(5, env)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got event.Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event.TypeNotification, got.Type)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, session, srv := newTestHub(t)
	session.On("Validate", mock.Anything, "token-9").Return(9, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token-9"), nil)
	require.NoError(t, err)

	waitForClients(t, hub, 9, 1)
	require.NoError(t, conn.Close())
	waitForClients(t, hub, 9, 0)

	data, err := json.Marshal(map[string]string{"note": "stale"})
	require.NoError(t, err)
	hub.Publish(9, event.Envelope{Type: event.TypeGoalUpdated, Data: data, Timestamp: time.Now()})
}
