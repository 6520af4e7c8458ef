//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"dm-relay/domain"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, msg domain.Message) error
	GetConversation(userA, userB string) ([]domain.Message, error)
	SearchConversation(ctx context.Context, userA, userB, query string) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	index         *bluge.Writer
	log           *slog.Logger
	limitMessages *int
	searchLimit   int
}

func NewMessageRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger,
	limitMessages *int, searchLimit int) MessageRepository {
	return MessageRepository{db: db, index: index, log: log,
		limitMessages: limitMessages, searchLimit: searchLimit}
}

// diskMessage is the JSON document stored in BadgerDB.
type diskMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Lang      string `json:"lang,omitempty"`
	At        int64  `json:"at"`
}

// StoreMessage persists a message in BadgerDB and indexes its body in Bluge.
// The key is formatted as "msg:{pair}:{timestamp_padded}:{uuid}" to:
//  1. Group both directions of a conversation under one prefix.
//  2. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  3. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(_ context.Context, msg domain.Message) error {
	pair := domain.ConversationKey(msg.Sender, msg.Recipient)
	key := fmt.Sprintf("msg:%s:%019d:%s", pair, msg.At.UnixNano(), msg.ID)

	data, err := json.Marshal(fromMessage(msg))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return err
	}

	doc := bluge.NewDocument(msg.ID.String()).
		AddField(bluge.NewKeywordField("pair", pair)).
		AddField(bluge.NewTextField("body", msg.Body).StoreValue()).
		AddField(bluge.NewKeywordField("sender", msg.Sender).StoreValue()).
		AddField(bluge.NewKeywordField("recipient", msg.Recipient).StoreValue()).
		AddField(bluge.NewStoredOnlyField("lang", []byte(msg.Lang))).
		AddField(bluge.NewStoredOnlyField("at", []byte(msg.At.Format(time.RFC3339Nano))))
	return m.index.Update(doc.ID(), doc)
}

// GetConversation retrieves the messages exchanged between two identities,
// ordered by timestamp ascending. Thanks to the padded timestamp in the key,
// messages are naturally sorted by time. When limitMessages is configured,
// the most recent ones win; the result stays ascending either way.
func (m MessageRepository) GetConversation(userA, userB string) ([]domain.Message, error) {
	var rawMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", domain.ConversationKey(userA, userB))
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key for this prefix, then walk back.
		seekKey := append([]byte(prefixStr), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rawMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				rawMessages = append(rawMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reverse iteration returned newest first; flip back to ascending.
	messages := make([]domain.Message, 0, len(rawMessages))
	for i := len(rawMessages) - 1; i >= 0; i-- {
		var dm diskMessage
		if err = json.Unmarshal(rawMessages[i], &dm); err != nil {
			return nil, err
		}
		msg, err := toMessage(dm)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// SearchConversation runs a full-text match over message bodies, restricted to
// one conversation via a term filter on the pair key. Hits are rebuilt from
// stored fields and returned ascending by timestamp.
func (m MessageRepository) SearchConversation(ctx context.Context, userA, userB, query string) ([]domain.Message, error) {
	reader, err := m.index.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader: %w", err)
	}
	defer reader.Close()

	pair := domain.ConversationKey(userA, userB)
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(pair).SetField("pair")).
		AddMust(bluge.NewMatchQuery(query).SetField("body"))

	it, err := reader.Search(ctx, bluge.NewTopNSearch(m.searchLimit, q))
	if err != nil {
		return nil, err
	}

	var hits []domain.Message
	match, err := it.Next()
	for err == nil && match != nil {
		var hit domain.Message
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID, _ = uuid.Parse(string(value))
			case "sender":
				hit.Sender = string(value)
			case "recipient":
				hit.Recipient = string(value)
			case "body":
				hit.Body = string(value)
			case "lang":
				hit.Lang = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = it.Next()
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].At.Before(hits[j].At) })
	return hits, nil
}

func fromMessage(msg domain.Message) diskMessage {
	return diskMessage{
		ID:        msg.ID.String(),
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Body:      msg.Body,
		Lang:      msg.Lang,
		At:        msg.At.UnixNano(),
	}
}

func toMessage(dm diskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(dm.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        parsedID,
		Sender:    dm.Sender,
		Recipient: dm.Recipient,
		Body:      dm.Body,
		Lang:      dm.Lang,
		At:        time.Unix(0, dm.At).UTC(),
	}, nil
}
