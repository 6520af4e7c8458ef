package runtime

import (
	"testing"

	"dm-relay/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	id string
}

func (s *Sink) ID() string                { return s.id }
func (s *Sink) Deliver(_ domain.Message)  {}
func (s *Sink) NotifyPresence(_ []string) {}

func newSink() *Sink {
	return &Sink{id: uuid.NewString()}
}

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := newSink()

	// Given no connection is registered
	req.Empty(registry.Snapshot())

	// When an identity registers
	registry.Register("alice", sink)

	// Then lookups resolve to its handle
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Equal(sink, found)
	req.Equal([]string{"alice"}, registry.Snapshot())
	req.Len(registry.Sinks(), 1)
}

func TestRegistry_Register_Last_Connect_Wins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	older := newSink()
	newer := newSink()

	// Given an identity already has a live connection
	registry.Register("alice", older)

	// When the same identity connects again
	registry.Register("alice", newer)

	// Then only the newest handle remains
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Equal(newer, found)
	req.Len(registry.Sinks(), 1)
}

func TestRegistry_Unregister_Removes_Matching_Handle(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink := newSink()
	registry.Register("alice", sink)

	// When the owning connection unregisters
	removed := registry.Unregister("alice", sink.ID())

	// Then the identity is gone
	req.True(removed)
	_, ok := registry.Lookup("alice")
	req.False(ok)
	req.Empty(registry.Snapshot())
}

func TestRegistry_Unregister_Stale_Handle_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	older := newSink()
	newer := newSink()

	// Given a newer connection superseded the older one
	registry.Register("alice", older)
	registry.Register("alice", newer)

	// When the older connection disconnects late
	removed := registry.Unregister("alice", older.ID())

	// Then the newer entry survives
	req.False(removed)
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Equal(newer, found)
}

func TestRegistry_Snapshot_Is_Sorted(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Register("carol", newSink())
	registry.Register("alice", newSink())
	registry.Register("bob", newSink())

	req.Equal([]string{"alice", "bob", "carol"}, registry.Snapshot())
}
