package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeiJie12/siwesession/core"
)

func testSession(token string) core.Session {
	return core.Session{
		Profile: core.UserProfile{ID: "u1", Address: "0xABC"},
		Token: core.Token{
			AccessToken: token,
			TokenType:   "Bearer",
			ObtainedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestMemoryStoreLoadEmpty(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, core.ErrNoSession)
}

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession("a1")))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSession("a1"), loaded)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession("a1")))
	require.NoError(t, s.Save(ctx, testSession("a2")))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", loaded.Token.AccessToken)
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession("a1")))
	s.Clear()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, core.ErrNoSession)
}
