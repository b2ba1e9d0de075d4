package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type plainKeyer struct{}

func (plainKeyer) AccessSessionKey(accessID string) string { return "session:access:" + accessID }

func testManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, keyer: plainKeyer{}, ttl: time.Hour}, store
}

func TestStartRevokeHasSession(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()
	accessID := NewAccessID()

	ok, err := mgr.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mgr.Start(ctx, accessID, uuid.New()))

	ok, err = mgr.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mgr.Revoke(ctx, accessID))

	ok, err = mgr.HasSession(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlankAccessIDRejected(t *testing.T) {
	mgr, _ := testManager()
	ctx := context.Background()

	assert.Error(t, mgr.Start(ctx, " ", uuid.New()))
	assert.Error(t, mgr.Revoke(ctx, ""))
	_, err := mgr.HasSession(ctx, "")
	assert.Error(t, err)
}
