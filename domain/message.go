// Package domain contains core concepts of the relay.
// Messages are immutable once persisted; the server clock is authoritative.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents one immutable direct message between two identities.
// ID and At are assigned by the router at persistence time, never by the client.
type Message struct {
	ID        uuid.UUID
	Sender    string
	Recipient string
	Body      string
	Lang      string
	At        time.Time
}

// keyEscaper makes identities safe to embed in storage keys. Identities are
// opaque client-chosen strings, so the pair separator and the key-segment
// separator must be escaped or the pairs {a, "b|c"} and {"a|b", c} would fold
// to the same key.
var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, ":", `\:`)

// ConversationKey returns the canonical key fragment for the unordered pair
// {a, b}, so that both directions of a conversation share one storage prefix.
// Escaping keeps the mapping injective: distinct pairs never share a key.
func ConversationKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return keyEscaper.Replace(a) + "|" + keyEscaper.Replace(b)
}
