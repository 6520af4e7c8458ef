package workers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dm-relay/domain"
	"dm-relay/runtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	id string

	mu       sync.Mutex
	presence [][]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{id: uuid.NewString()}
}

func (s *recordingSink) ID() string               { return s.id }
func (s *recordingSink) Deliver(_ domain.Message) {}

func (s *recordingSink) NotifyPresence(online []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence = append(s.presence, online)
}

func (s *recordingSink) broadcasts() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.presence...)
}

func TestPresenceFanout_Broadcasts_Snapshot_To_Every_Connection(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := runtime.NewRegistry()
	fanout := NewPresenceFanout(log, registry, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()

	// Given two live connections
	alice := newRecordingSink()
	bob := newRecordingSink()
	registry.Register("alice", alice)
	registry.Register("bob", bob)

	// When a presence change is signalled
	fanout.Notify()

	// Then both connections receive the full online set
	req.Eventually(func() bool {
		return len(alice.broadcasts()) >= 1 && len(bob.broadcasts()) >= 1
	}, time.Second, 10*time.Millisecond)

	broadcasts := alice.broadcasts()
	req.Equal([]string{"alice", "bob"}, broadcasts[len(broadcasts)-1])
}

func TestPresenceFanout_One_Broadcast_Per_Change(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := runtime.NewRegistry()
	fanout := NewPresenceFanout(log, registry, 16)

	alice := newRecordingSink()
	registry.Register("alice", alice)

	// Given three queued change signals
	fanout.Notify()
	fanout.Notify()
	fanout.Notify()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()

	// Then each signal produces its own broadcast
	req.Eventually(func() bool {
		return len(alice.broadcasts()) == 3
	}, time.Second, 10*time.Millisecond)
}

func TestPresenceFanout_Notify_Never_Blocks_When_Buffer_Is_Full(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := runtime.NewRegistry()
	fanout := NewPresenceFanout(log, registry, 1)

	// Given a saturated buffer and no running consumer
	fanout.Notify()

	done := make(chan struct{})
	go func() {
		fanout.Notify()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full buffer")
	}
}
