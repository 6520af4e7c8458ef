package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dm-relay/auth"
	httpapi "dm-relay/infrastructure/http"
	"dm-relay/moderation"
	"dm-relay/repositories"
	"dm-relay/runtime"
	"dm-relay/runtime/workers"
	"dm-relay/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// newRelayServer boots the full relay stack on ephemeral storage and returns
// its HTTP test server.
func newRelayServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := runtime.NewRegistry()
	fanout := workers.NewPresenceFanout(log, registry, 16)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = fanout.Run(ctx) }()

	moderator, err := moderation.NewModerator(nil, '*')
	require.NoError(t, err)
	auth.SetSecret("e2e-test-secret")

	messages := repositories.NewMessageRepository(db, index, log, nil, 25)
	users := repositories.NewUserRepository(db)
	service := services.NewRouterService(log, messages, users, registry, fanout, moderator, time.Hour)

	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(log, service), NewHandler(log, service, 32)))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitForEvent reads frames until one matches the wanted type and predicate.
func waitForEvent(t *testing.T, conn *websocket.Conn, eventType string,
	match func(data json.RawMessage) bool) json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)

		var envelope Envelope
		require.NoError(t, json.Unmarshal(frame, &envelope))
		if envelope.Type == eventType && (match == nil || match(envelope.Data)) {
			return envelope.Data
		}
	}
}

func onlineContains(identities ...string) func(data json.RawMessage) bool {
	return func(data json.RawMessage) bool {
		var online []string
		if err := json.Unmarshal(data, &online); err != nil {
			return false
		}
		return lo.Every(online, identities)
	}
}

func sendMessage(t *testing.T, conn *websocket.Conn, recipient, body string) {
	t.Helper()
	payload, err := json.Marshal(SendMessagePayload{Recipient: recipient, Body: body})
	require.NoError(t, err)
	frame, err := json.Marshal(Envelope{Type: EventSendMessage, Data: payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func TestHandshake_Without_Identity_Is_Rejected(t *testing.T) {
	req := require.New(t)
	server := newRelayServer(t)

	conn := dial(t, server, "")
	req.NoError(conn.SetReadDeadline(time.Now().Add(3 * time.Second)))

	_, _, err := conn.ReadMessage()
	req.True(websocket.IsCloseError(err, websocket.ClosePolicyViolation))
}

func TestHandshake_With_Token_Resolves_Identity(t *testing.T) {
	req := require.New(t)
	server := newRelayServer(t)

	// Given a token issued by registration
	body := `{"identity":"alice","email":"alice@example.com"}`
	resp, err := http.Post(server.URL+"/register", "application/json", bytes.NewReader([]byte(body)))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
	var registered struct {
		Token string `json:"token"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&registered))
	req.NotEmpty(registered.Token)

	// When connecting with the token only
	conn := dial(t, server, "?token="+registered.Token)

	// Then the session comes online under the registered identity
	waitForEvent(t, conn, EventOnlineUsers, onlineContains("alice"))
}

func TestRelay_Delivers_And_Persists_Messages(t *testing.T) {
	req := require.New(t)
	server := newRelayServer(t)

	// Given two online identities
	alice := dial(t, server, "?identity=alice")
	waitForEvent(t, alice, EventOnlineUsers, onlineContains("alice"))
	bob := dial(t, server, "?identity=bob")
	waitForEvent(t, alice, EventOnlineUsers, onlineContains("alice", "bob"))
	waitForEvent(t, bob, EventOnlineUsers, onlineContains("alice", "bob"))

	// When alice sends bob a message
	sendMessage(t, alice, "bob", "hi bob")

	// Then bob receives it and alice gets the reconciled echo
	isHiBob := func(data json.RawMessage) bool {
		var record MessageRecord
		return json.Unmarshal(data, &record) == nil && record.Body == "hi bob"
	}
	received := waitForEvent(t, bob, EventReceiveMessage, isHiBob)
	echoed := waitForEvent(t, alice, EventReceiveMessage, isHiBob)

	var delivered, echo MessageRecord
	req.NoError(json.Unmarshal(received, &delivered))
	req.NoError(json.Unmarshal(echoed, &echo))
	req.Equal("alice", delivered.Sender)
	req.Equal("bob", delivered.Recipient)
	req.NotEmpty(delivered.ID)
	req.False(delivered.At.IsZero())
	req.Equal(delivered, echo)

	// And the message is retrievable from history, pair order agnostic
	resp, err := http.Get(server.URL + "/messages?user1=bob&user2=alice")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var history []MessageRecord
	req.NoError(json.NewDecoder(resp.Body).Decode(&history))
	req.Len(history, 1)
	req.Equal(delivered.ID, history[0].ID)
	req.Equal("hi bob", history[0].Body)
}

func TestRelay_Broadcasts_Departures(t *testing.T) {
	server := newRelayServer(t)

	alice := dial(t, server, "?identity=alice")
	waitForEvent(t, alice, EventOnlineUsers, onlineContains("alice"))
	bob := dial(t, server, "?identity=bob")
	waitForEvent(t, alice, EventOnlineUsers, onlineContains("alice", "bob"))

	// When bob drops the connection
	_ = bob.Close()

	// Then alice sees the shrunken online set
	waitForEvent(t, alice, EventOnlineUsers, func(data json.RawMessage) bool {
		var online []string
		return json.Unmarshal(data, &online) == nil && len(online) == 1 && online[0] == "alice"
	})
}
