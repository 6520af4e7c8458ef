package repositories

import (
	"testing"

	"dm-relay/domain"
	"dm-relay/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newUserRepository(t *testing.T) UserRepository {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserRepository(db)
}

func TestUserRepository_Upsert_Creates_Then_Gets(t *testing.T) {
	req := require.New(t)
	repo := newUserRepository(t)

	created, err := repo.UpsertUser("alice", "alice@example.com", "Alice")
	req.NoError(err)
	req.Equal("alice", created.Identity)
	req.Equal("alice@example.com", created.Email)
	req.False(created.CreatedAt.IsZero())

	fetched, err := repo.GetUser("alice")
	req.NoError(err)
	req.Equal(created, fetched)
}

func TestUserRepository_Upsert_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repo := newUserRepository(t)

	// Given a registered user
	first, err := repo.UpsertUser("alice", "alice@example.com", "Alice")
	req.NoError(err)

	// When the same identity registers again with fresh details
	second, err := repo.UpsertUser("alice", "new@example.com", "Alice W.")
	req.NoError(err)

	// Then details refresh but the creation date survives
	req.Equal("new@example.com", second.Email)
	req.Equal("Alice W.", second.DisplayName)
	req.Equal(first.CreatedAt, second.CreatedAt)

	users, err := repo.ListUsers()
	req.NoError(err)
	req.Len(users, 1)
}

func TestUserRepository_Upsert_Requires_Identity(t *testing.T) {
	req := require.New(t)
	repo := newUserRepository(t)

	_, err := repo.UpsertUser("", "alice@example.com", "Alice")
	req.ErrorIs(err, errors.ErrMissingIdentity)
}

func TestUserRepository_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := newUserRepository(t)

	_, err := repo.GetUser("ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_List_Is_Sorted_By_Identity(t *testing.T) {
	req := require.New(t)
	repo := newUserRepository(t)

	for _, identity := range []string{"carol", "alice", "bob"} {
		_, err := repo.UpsertUser(identity, identity+"@example.com", "")
		req.NoError(err)
	}

	users, err := repo.ListUsers()
	req.NoError(err)
	identities := lo.Map(users, func(u domain.User, _ int) string { return u.Identity })
	req.Equal([]string{"alice", "bob", "carol"}, identities)
}
