//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"dm-relay/domain"
)

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Sink is the delivery side of one live connection. A Sink is owned by the
// session that created it and must tolerate calls racing its own teardown:
// delivery to a closed sink is dropped, never an error.
type Sink interface {
	// ID identifies the underlying connection handle. The registry compares
	// it on unregister so a stale disconnect cannot evict a newer connection.
	ID() string
	Deliver(msg domain.Message)
	NotifyPresence(online []string)
}

// IRegistry is the authoritative mapping from identity to its single
// active connection handle.
type IRegistry interface {
	Register(identity string, sink Sink)
	Unregister(identity, handleID string) bool
	Lookup(identity string) (Sink, bool)
	Snapshot() []string
	Sinks() []Sink
}

// PresenceNotifier signals that the set of online identities changed.
type PresenceNotifier interface {
	Notify()
}
