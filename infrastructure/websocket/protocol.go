package websocket

import (
	"encoding/json"
	"time"

	"dm-relay/domain"
)

// Event types exchanged on a connection. The relay speaks a small JSON
// envelope protocol: one inbound event, two outbound ones.
const (
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
	EventOnlineUsers    = "online-users"
)

// Envelope wraps every frame on the wire.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SendMessagePayload is the inbound message intent. The client never supplies
// a timestamp or an identifier; both are assigned server-side.
type SendMessagePayload struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// MessageRecord is the outbound, persisted form of a message.
type MessageRecord struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	Lang      string    `json:"lang,omitempty"`
	At        time.Time `json:"at"`
}

func toMessageRecord(msg domain.Message) MessageRecord {
	return MessageRecord{
		ID:        msg.ID.String(),
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Body:      msg.Body,
		Lang:      msg.Lang,
		At:        msg.At,
	}
}

func marshalEvent(eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Data: data})
}
