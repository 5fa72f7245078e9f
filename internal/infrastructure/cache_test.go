package infrastructure_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/architeacher/loaner/internal/infrastructure"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newKeydbClient(t *testing.T) (*infrastructure.KeydbClient, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := infrastructure.NewKeyDBClientFromRedis(
		redis.NewClient(&redis.Options{Addr: server.Addr()}),
		logger.NewTestLogger(),
	)

	t.Cleanup(func() {
		_ = client.Close(t.Context())
	})

	return client, server
}

func TestKeydbClient_GetInt64(t *testing.T) {
	t.Parallel()

	client, server := newKeydbClient(t)

	value, at, err := client.GetInt64(t.Context(), "missing")
	require.NoError(t, err)
	require.Zero(t, value)
	require.True(t, at.IsZero())

	require.NoError(t, server.Set("present", "42"))

	value, at, err = client.GetInt64(t.Context(), "present")
	require.NoError(t, err)
	require.Equal(t, int64(42), value)
	require.False(t, at.IsZero())
}

func TestKeydbClient_SetInt64NX(t *testing.T) {
	t.Parallel()

	client, server := newKeydbClient(t)

	set, err := client.SetInt64NX(t.Context(), "key", 7, time.Minute)
	require.NoError(t, err)
	require.True(t, set)

	set, err = client.SetInt64NX(t.Context(), "key", 8, time.Minute)
	require.NoError(t, err)
	require.False(t, set)

	stored, err := server.Get("key")
	require.NoError(t, err)
	require.Equal(t, "7", stored)
	require.Equal(t, time.Minute, server.TTL("key"))
}

func TestKeydbClient_CompareAndSwapInt64(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		seed     string
		old      int64
		swapped  bool
		expected string
	}{
		{name: "swaps when the value matches", seed: "10", old: 10, swapped: true, expected: "11"},
		{name: "keeps the value when it changed", seed: "12", old: 10, swapped: false, expected: "12"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, server := newKeydbClient(t)
			require.NoError(t, server.Set("key", tc.seed))

			swapped, err := client.CompareAndSwapInt64(t.Context(), "key", tc.old, 11, time.Minute)
			require.NoError(t, err)
			require.Equal(t, tc.swapped, swapped)

			stored, err := server.Get("key")
			require.NoError(t, err)
			require.Equal(t, tc.expected, stored)
		})
	}
}

func TestKeydbClient_CompareAndSwapMissingKey(t *testing.T) {
	t.Parallel()

	client, _ := newKeydbClient(t)

	swapped, err := client.CompareAndSwapInt64(t.Context(), "absent", 1, 2, time.Minute)
	require.NoError(t, err)
	require.False(t, swapped)
}

func TestKeydbClient_Ping(t *testing.T) {
	t.Parallel()

	server, err := miniredis.Run()
	require.NoError(t, err)

	client := infrastructure.NewKeyDBClientFromRedis(
		redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1}),
		logger.NewTestLogger(),
	)

	t.Cleanup(func() {
		_ = client.Close(t.Context())
	})

	require.NoError(t, client.Ping(t.Context()))

	server.Close()
	require.Error(t, client.Ping(t.Context()))
}
