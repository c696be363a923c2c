package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name string `json:"name"`
}

func dialTestRouter(t *testing.T, router *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		router.ServeConn(r.Context(), conn)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestDispatchesByMessageType(t *testing.T) {
	router := New()

	var mu sync.Mutex
	var got []string
	Handle(router, "greet", func(ctx context.Context, conn *websocket.Conn, payload greetPayload) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, payload.Name)
		assert.Equal(t, "greet", GetMessageTypeFromCtx(ctx))

		return conn.WriteJSON(Message{Type: "greeted"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(Message{Type: "greet", Payload: []byte(`{"name":"alice"}`)}))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "greeted", reply.Type)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"alice"}, got)
}

func TestUnknownTypeReportedWithoutClosing(t *testing.T) {
	router := New()

	var mu sync.Mutex
	var reported error
	router.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = err
		conn.WriteJSON(Message{Type: "error"})
	})
	Handle(router, "ping", func(ctx context.Context, conn *websocket.Conn, _ struct{}) error {
		return conn.WriteJSON(Message{Type: "pong"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)

	mu.Lock()
	assert.ErrorIs(t, reported, ErrUnknownMessageType)
	mu.Unlock()

	// connection still serves known types afterward
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply.Type)
}

func TestMalformedPayloadReported(t *testing.T) {
	router := New()

	var mu sync.Mutex
	var reported error
	router.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = err
		conn.WriteJSON(Message{Type: "error"})
	})
	Handle(router, "greet", func(ctx context.Context, conn *websocket.Conn, payload greetPayload) error {
		t.Error("handler must not run on malformed payload")
		return nil
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(Message{Type: "greet", Payload: []byte(`{"name":42}`)}))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, reported, ErrMalformedPayload)
}

func TestHandlerErrorRoutedToSink(t *testing.T) {
	router := New()

	errBoom := errors.New("boom")
	Handle(router, "explode", func(ctx context.Context, conn *websocket.Conn, _ struct{}) error {
		return errBoom
	})

	var mu sync.Mutex
	var reported error
	router.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = err
		conn.WriteJSON(Message{Type: "error"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(Message{Type: "explode"}))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, reported, errBoom)
}

func TestMiddlewareOrder(t *testing.T) {
	router := New()

	var mu sync.Mutex
	var order []string
	record := func(step string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, step)
	}

	router.Use(func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage] {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			record("outer")
			return next(ctx, conn, payload)
		}
	})
	router.Use(func(next HandlerFunc[json.RawMessage]) HandlerFunc[json.RawMessage] {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			record("inner")
			return next(ctx, conn, payload)
		}
	})
	Handle(router, "ping", func(ctx context.Context, conn *websocket.Conn, _ struct{}) error {
		record("handler")
		return conn.WriteJSON(Message{Type: "pong"})
	})

	conn := dialTestRouter(t, router)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
