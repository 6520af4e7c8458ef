package workers

import (
	"context"
	"log/slog"

	"dm-relay/contract"
)

// PresenceFanout broadcasts the online set to every registered connection
// whenever presence changes.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// retries, or durability: an unreachable session simply misses the update.
// One broadcast is published per change signal, so each connect and
// disconnect produces its own online-users frame.
//
// PresenceFanout is safe for concurrent use by multiple goroutines.
type PresenceFanout struct {
	log      *slog.Logger
	registry contract.IRegistry
	changes  chan struct{}
}

func NewPresenceFanout(log *slog.Logger, registry contract.IRegistry, bufferSize int) *PresenceFanout {
	return &PresenceFanout{
		log:      log,
		registry: registry,
		changes:  make(chan struct{}, bufferSize),
	}
}

// Notify enqueues one broadcast. Never blocks the calling session: when the
// buffer is saturated the update is lost and the next one catches up.
func (w *PresenceFanout) Notify() {
	select {
	case w.changes <- struct{}{}:
	default:
		w.log.Warn("Presence change signal lost, broadcast buffer full")
	}
}

func (w *PresenceFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-w.changes:
			w.publish()
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence fanout")
			return nil
		}
	}
}

// publish pushes the current snapshot to every registered connection.
func (w *PresenceFanout) publish() {
	online := w.registry.Snapshot()
	for _, sink := range w.registry.Sinks() {
		sink.NotifyPresence(online)
	}
}
