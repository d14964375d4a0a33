package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartValue struct {
	Lines []string `json:"lines"`
}

func TestMemoryStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	require.NoError(t, s.Set(ctx, "sid", KeyCart, cartValue{Lines: []string{"a"}}))
	require.NoError(t, s.Set(ctx, "sid", KeyCheckout, map[string]string{"method": "pickup"}))

	var got cartValue
	found, err := s.Get(ctx, "sid", KeyCart, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a"}, got.Lines)

	require.NoError(t, s.Clear(ctx, "sid", KeyCart))
	found, err = s.Get(ctx, "sid", KeyCart, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Clear(ctx, "sid"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	v := cartValue{Lines: []string{"a"}}
	require.NoError(t, s.Set(ctx, "sid", KeyCart, v))
	v.Lines[0] = "mutated"

	var got cartValue
	_, err := s.Get(ctx, "sid", KeyCart, &got)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Lines[0])
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "sid", KeyCart, cartValue{}))
	now = now.Add(2 * time.Minute)

	var got cartValue
	found, err := s.Get(ctx, "sid", KeyCart, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_RequiresSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	var v cartValue

	_, err := s.Get(ctx, "", KeyCart, &v)
	assert.ErrorIs(t, err, ErrSessionRequired)
	assert.ErrorIs(t, s.Set(ctx, "", KeyCart, v), ErrSessionRequired)
	assert.ErrorIs(t, s.Clear(ctx, ""), ErrSessionRequired)
	assert.NoError(t, s.Clear(ctx, "unknown"))
}
