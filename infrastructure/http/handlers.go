package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"dm-relay/domain"
	"dm-relay/services"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Handler serves the request/response query surface: conversation history,
// known users and idempotent registration.
type Handler struct {
	log      *slog.Logger
	service  services.IRouterService
	validate *validator.Validate
}

func NewHandler(log *slog.Logger, service services.IRouterService) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

type messageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	Lang      string    `json:"lang,omitempty"`
	At        time.Time `json:"at"`
}

type userResponse struct {
	Identity    string    `json:"identity"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type registerRequest struct {
	Identity    string `json:"identity" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName"`
}

type registerResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetMessages returns the conversation between two identities, ascending by
// timestamp. The pair is unordered: swapping user1 and user2 yields the same
// result.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user1 := r.URL.Query().Get("user1")
	user2 := r.URL.Query().Get("user2")
	if user1 == "" || user2 == "" {
		h.respondError(w, http.StatusBadRequest, "user1 and user2 are required")
		return
	}

	messages, err := h.service.Conversation(user1, user2)
	if err != nil {
		h.log.Error("Conversation fetch failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}
	h.respondJSON(w, http.StatusOK, toMessageResponses(messages))
}

// SearchMessages runs a full-text query within one conversation.
func (h *Handler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	user1 := r.URL.Query().Get("user1")
	user2 := r.URL.Query().Get("user2")
	query := r.URL.Query().Get("q")
	if user1 == "" || user2 == "" || query == "" {
		h.respondError(w, http.StatusBadRequest, "user1, user2 and q are required")
		return
	}

	messages, err := h.service.Search(r.Context(), user1, user2, query)
	if err != nil {
		h.log.Error("Message search failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}
	h.respondJSON(w, http.StatusOK, toMessageResponses(messages))
}

// ListUsers returns every known identity.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		h.log.Error("Users fetch failed", "err", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}
	h.respondJSON(w, http.StatusOK, lo.Map(users, func(user domain.User, _ int) userResponse {
		return toUserResponse(user)
	}))
}

// Register upserts a user record and returns it together with a session
// token for the websocket handshake. Idempotent: re-registering refreshes
// email and display name only.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "identity and a valid email are required")
		return
	}

	user, token, err := h.service.RegisterUser(req.Identity, req.Email, req.DisplayName)
	if err != nil {
		h.log.Error("Register failed", "identity", req.Identity, "err", err)
		h.respondError(w, http.StatusInternalServerError, "server error")
		return
	}
	h.respondJSON(w, http.StatusOK, registerResponse{User: toUserResponse(user), Token: token})
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	return lo.Map(messages, func(msg domain.Message, _ int) messageResponse {
		return messageResponse{
			ID:        msg.ID.String(),
			Sender:    msg.Sender,
			Recipient: msg.Recipient,
			Body:      msg.Body,
			Lang:      msg.Lang,
			At:        msg.At,
		}
	})
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		Identity:    user.Identity,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Response encoding failed", "err", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorResponse{Error: message})
}
