package redisstore

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yiblet/omikuji/internal/store"
	"go.uber.org/zap"
)

func TestRedisStore_ImplementsStore(t *testing.T) {
	var _ store.Store = (*RedisStore)(nil)
}

func TestNewWithClient_Defaults(t *testing.T) {
	s := NewWithClient(nil, "", 0, nil)
	assert.Equal(t, DefaultPrefix, s.prefix)
	assert.Equal(t, DefaultTimeout, s.timeout)
	assert.NotNil(t, s.logger)
}

// setupRedis connects to the server named by OMIKUJI_TEST_REDIS_ADDR, using a
// unique prefix per test so runs do not collide.
func setupRedis(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("OMIKUJI_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("OMIKUJI_TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	s, err := New(Config{
		Addr:    addr,
		Prefix:  "omikuji-test:" + uuid.NewString() + ":",
		Timeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		keys, _ := s.Keys()
		for _, k := range keys {
			_ = s.Delete(k)
		}
		s.Close()
	})
	return s
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s := setupRedis(t)

	_, err := s.Get("omikuji-data-v4")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	require.NoError(t, s.Set("omikuji-theme", "dark"))
	require.NoError(t, s.Set("omikuji-data-v4", `{"selectedCollectionId":"default"}`))

	got, err := s.Get("omikuji-theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"omikuji-data-v4", "omikuji-theme"}, keys)

	require.NoError(t, s.Delete("omikuji-theme"))
	assert.ErrorIs(t, s.Delete("omikuji-theme"), store.ErrNotFound)
}
