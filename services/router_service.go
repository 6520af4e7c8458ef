//go:generate go run go.uber.org/mock/mockgen -source=router_service.go -destination=../mocks/mock_router_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dm-relay/auth"
	"dm-relay/contract"
	"dm-relay/domain"
	"dm-relay/errors"
	"dm-relay/moderation"
	"dm-relay/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IRouterService interface {
	HandleInbound(ctx context.Context, sender, recipient, body string) error
	Connect(identity string, sink contract.Sink)
	Disconnect(identity, handleID string)
	Conversation(userA, userB string) ([]domain.Message, error)
	Search(ctx context.Context, userA, userB, query string) ([]domain.Message, error)
	RegisterUser(identity, email, displayName string) (domain.User, string, error)
	ListUsers() ([]domain.User, error)
}

// RouterService performs persist-then-deliver for inbound messages and owns
// the presence lifecycle of connections.
type RouterService struct {
	log       *slog.Logger
	messages  repositories.IMessageRepository
	users     repositories.IUserRepository
	registry  contract.IRegistry
	presence  contract.PresenceNotifier
	moderator moderation.Moderator
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewRouterService(
	log *slog.Logger,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	registry contract.IRegistry,
	presence contract.PresenceNotifier,
	moderator moderation.Moderator,
	tokenTTL time.Duration,
) *RouterService {
	return &RouterService{
		log:       log,
		messages:  messages,
		users:     users,
		registry:  registry,
		presence:  presence,
		moderator: moderator,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// HandleInbound accepts one message intent, persists it with a
// server-assigned timestamp, then delivers it to the recipient's live
// connection and echoes it back to the sender.
//
// Persistence gates delivery: a message that could not be stored is never
// pushed to anyone, so history always contains every delivered message.
// Delivery itself is fire-and-forget; an offline recipient loses nothing,
// the record stays retrievable via the conversation query.
func (s *RouterService) HandleInbound(ctx context.Context, sender, recipient, body string) error {
	if sender == "" || recipient == "" || strings.TrimSpace(body) == "" {
		return errors.ErrEmptyMessageField
	}

	body = s.moderator.Censor(body)

	msg := domain.Message{
		ID:        uuid.New(),
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		Lang:      detectLang(body),
		At:        s.now().UTC(),
	}

	if err := s.messages.StoreMessage(ctx, msg); err != nil {
		s.log.Error("Message not persisted, delivery skipped",
			"sender", sender, "recipient", recipient, "err", err)
		return fmt.Errorf("store message: %w", err)
	}

	if sink, ok := s.registry.Lookup(recipient); ok {
		sink.Deliver(msg)
	}
	// Self-echo: the sender's view is reconciled with the server-assigned
	// identifier and timestamp.
	if sink, ok := s.registry.Lookup(sender); ok {
		sink.Deliver(msg)
	}
	return nil
}

// Connect registers a live connection for identity and announces the new
// online set. A previous connection for the same identity is superseded but
// not closed.
func (s *RouterService) Connect(identity string, sink contract.Sink) {
	s.registry.Register(identity, sink)
	s.presence.Notify()
}

// Disconnect removes the connection if it is still the registered one.
// A stale disconnect changes nothing and triggers no broadcast.
func (s *RouterService) Disconnect(identity, handleID string) {
	if s.registry.Unregister(identity, handleID) {
		s.presence.Notify()
	}
}

// Conversation returns all messages between two identities, ascending by
// timestamp, regardless of argument order.
func (s *RouterService) Conversation(userA, userB string) ([]domain.Message, error) {
	return s.messages.GetConversation(userA, userB)
}

// Search runs a full-text query within one conversation.
func (s *RouterService) Search(ctx context.Context, userA, userB, query string) ([]domain.Message, error) {
	return s.messages.SearchConversation(ctx, userA, userB, query)
}

// RegisterUser idempotently upserts the user record and issues a session
// token the client may present at the websocket handshake.
func (s *RouterService) RegisterUser(identity, email, displayName string) (domain.User, string, error) {
	user, err := s.users.UpsertUser(identity, email, displayName)
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := auth.GenerateToken(identity, s.tokenTTL)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("token generation: %w", err)
	}
	return user, token, nil
}

func (s *RouterService) ListUsers() ([]domain.User, error) {
	return s.users.ListUsers()
}

// detectLang tags the body with an ISO 639-3 code when detection is
// confident enough, empty otherwise.
func detectLang(body string) string {
	info := whatlanggo.Detect(body)
	if !info.IsReliable() {
		return ""
	}
	return whatlanggo.LangToString(info.Lang)
}
