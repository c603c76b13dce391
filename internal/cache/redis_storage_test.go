package cache

import (
	"os"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "learnhub:limiter:10.0.0.1", storageKey("10.0.0.1"))
}

// Runs against a real server only when REDIS_ADDR is provided.
func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := Connect(&config.Config{RedisAddr: addr})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Reset())

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("ip", []byte("3"), time.Minute))
	val, err = s.Get("ip")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("ip"))
	val, err = s.Get("ip")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestConnectFailure(t *testing.T) {
	_, err := Connect(&config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
