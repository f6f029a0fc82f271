package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID   int
	Type string
}

func TestUseCache_CallsBackOnceThenServesFromCache(t *testing.T) {
	ctx := context.Background()
	c := NewCacheRedis(nil, time.Minute)

	calls := 0
	load := func() ([]entry, error) {
		calls++
		return []entry{{1, "Science"}, {2, "Art"}}, nil
	}

	first, err := UseCache(ctx, c, "categories", time.Minute, load)
	require.NoError(t, err)
	second, err := UseCache(ctx, c, "categories", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "Art", second[1].Type)
}

func TestUseCache_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := NewCacheRedis(nil, time.Minute)

	boom := errors.New("boom")
	_, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	v, err := UseCache(ctx, c, "k", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCacheRedis_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewCacheRedis(nil, time.Minute)

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	var v int
	assert.Error(t, c.Get(ctx, "k", &v))
}
