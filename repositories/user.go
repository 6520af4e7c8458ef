//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"dm-relay/domain"
	"dm-relay/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	UpsertUser(identity, email, displayName string) (domain.User, error)
	GetUser(identity string) (domain.User, error)
	ListUsers() ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

// diskUser is the JSON document stored in BadgerDB.
// Equivalent to diskMessage for the identity domain.
type diskUser struct {
	Identity    string `json:"identity"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// UpsertUser creates the user or refreshes its email and display name.
// The operation is idempotent: CreatedAt survives re-registration.
func (u UserRepository) UpsertUser(identity, email, displayName string) (domain.User, error) {
	if identity == "" {
		return domain.User{}, errors.ErrMissingIdentity
	}

	record := diskUser{
		Identity:    identity,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC().UnixNano(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + identity)
		item, err := txn.Get(key)
		switch err {
		case nil:
			var existing diskUser
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			})
			if err != nil {
				return err
			}
			record.CreatedAt = existing.CreatedAt
		case badger.ErrKeyNotFound:
			// first registration
		default:
			return err
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

// GetUser retrieves a user by identity.
func (u UserRepository) GetUser(identity string) (domain.User, error) {
	var record diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + identity))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, identity)
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

// ListUsers returns every known user, ordered by identity thanks to the
// lexicographic key prefix scan.
func (u UserRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record diskUser
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			users = append(users, toUser(record))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func toUser(record diskUser) domain.User {
	return domain.User{
		Identity:    record.Identity,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		CreatedAt:   time.Unix(0, record.CreatedAt).UTC(),
	}
}
