package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dm-relay/domain"
	"dm-relay/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockIRouterService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockIRouterService(ctrl)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(log, service)
	return NewRouter(handler, http.NotFoundHandler()), service
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&out))
	return out
}

func TestGetMessages_Returns_Conversation(t *testing.T) {
	req := require.New(t)
	router, service := newTestRouter(t)

	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	service.EXPECT().Conversation("alice", "bob").Return([]domain.Message{
		{ID: uuid.New(), Sender: "alice", Recipient: "bob", Body: "hello", Lang: "eng", At: at},
	}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages?user1=alice&user2=bob", nil))

	req.Equal(http.StatusOK, recorder.Code)
	req.Equal("application/json", recorder.Header().Get("Content-Type"))
	messages := decodeBody[[]messageResponse](t, recorder)
	req.Len(messages, 1)
	req.Equal("hello", messages[0].Body)
	req.Equal(at, messages[0].At)
}

func TestGetMessages_Requires_Both_Users(t *testing.T) {
	req := require.New(t)
	router, _ := newTestRouter(t)

	for _, target := range []string{"/messages", "/messages?user1=alice", "/messages?user2=bob"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

		req.Equal(http.StatusBadRequest, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		req.Equal("user1 and user2 are required", body.Error)
	}
}

func TestSearchMessages_Requires_Query(t *testing.T) {
	req := require.New(t)
	router, _ := newTestRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages/search?user1=alice&user2=bob", nil))

	req.Equal(http.StatusBadRequest, recorder.Code)
}

func TestSearchMessages_Returns_Hits(t *testing.T) {
	req := require.New(t)
	router, service := newTestRouter(t)

	service.EXPECT().
		Search(gomock.Any(), "alice", "bob", "pizza").
		Return([]domain.Message{{ID: uuid.New(), Sender: "alice", Recipient: "bob", Body: "pizza tonight?"}}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages/search?user1=alice&user2=bob&q=pizza", nil))

	req.Equal(http.StatusOK, recorder.Code)
	messages := decodeBody[[]messageResponse](t, recorder)
	req.Len(messages, 1)
	req.Equal("pizza tonight?", messages[0].Body)
}

func TestListUsers_Returns_Known_Identities(t *testing.T) {
	req := require.New(t)
	router, service := newTestRouter(t)

	service.EXPECT().ListUsers().Return([]domain.User{
		{Identity: "alice", Email: "alice@example.com", DisplayName: "Alice"},
		{Identity: "bob", Email: "bob@example.com"},
	}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users", nil))

	req.Equal(http.StatusOK, recorder.Code)
	users := decodeBody[[]userResponse](t, recorder)
	req.Len(users, 2)
	req.Equal("alice", users[0].Identity)
	req.Equal("bob", users[1].Identity)
}

func TestRegister_Returns_User_And_Token(t *testing.T) {
	req := require.New(t)
	router, service := newTestRouter(t)

	service.EXPECT().
		RegisterUser("alice", "alice@example.com", "Alice").
		Return(domain.User{Identity: "alice", Email: "alice@example.com", DisplayName: "Alice"}, "a.jwt.token", nil)

	body := `{"identity":"alice","email":"alice@example.com","displayName":"Alice"}`
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	req.Equal(http.StatusOK, recorder.Code)
	response := decodeBody[registerResponse](t, recorder)
	req.Equal("alice", response.User.Identity)
	req.Equal("a.jwt.token", response.Token)
}

func TestRegister_Rejects_Invalid_Payloads(t *testing.T) {
	req := require.New(t)
	router, _ := newTestRouter(t)

	cases := map[string]string{
		"broken JSON":      `{"identity":`,
		"missing identity": `{"email":"alice@example.com"}`,
		"missing email":    `{"identity":"alice"}`,
		"malformed email":  `{"identity":"alice","email":"not-an-email"}`,
	}
	for name, body := range cases {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
		req.Equalf(http.StatusBadRequest, recorder.Code, "case %q", name)
	}
}
