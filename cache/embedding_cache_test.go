package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	queries   int
	documents int
	err       error
}

func (e *countingEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.queries++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 0.5}, nil
}

func (e *countingEmbedder) EmbedDocument(_ context.Context, text string) ([]float32, error) {
	e.documents++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.5, float32(len(text))}, nil
}

type recorder struct{ hits, misses int }

func (r *recorder) RecordCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

type failingClient struct{}

func (failingClient) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (failingClient) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingClient) Delete(context.Context, string) error { return nil }
func (failingClient) Close() error                         { return nil }

func TestEmbeddingCache_ServesRepeatsFromCache(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{}
	rec := &recorder{}
	c := NewEmbeddingCache(next, NewMemoryClient(10), WithRecorder(rec), WithModel("m1"))

	first, err := c.EmbedQuery(ctx, "slip and fall")
	require.NoError(t, err)
	second, err := c.EmbedQuery(ctx, "slip and fall")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.queries)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
}

func TestEmbeddingCache_TaskAndModelScopeKeys(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{}
	client := NewMemoryClient(10)

	_, err := NewEmbeddingCache(next, client, WithModel("m1")).EmbedQuery(ctx, "text")
	require.NoError(t, err)
	_, err = NewEmbeddingCache(next, client, WithModel("m1")).EmbedDocument(ctx, "text")
	require.NoError(t, err)
	_, err = NewEmbeddingCache(next, client, WithModel("m2")).EmbedQuery(ctx, "text")
	require.NoError(t, err)

	assert.Equal(t, 2, next.queries)
	assert.Equal(t, 1, next.documents)
	assert.NotEqual(t, EmbeddingKey("m1", "query", "text"), EmbeddingKey("m1", "document", "text"))
}

func TestEmbeddingCache_EmbedderErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{err: errors.New("quota exceeded")}
	client := NewMemoryClient(10)
	c := NewEmbeddingCache(next, client)

	_, err := c.EmbedQuery(ctx, "text")
	require.Error(t, err)

	_, err = client.Get(ctx, EmbeddingKey("", "query", "text"))
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestEmbeddingCache_ClientFailureFallsThrough(t *testing.T) {
	next := &countingEmbedder{}
	c := NewEmbeddingCache(next, failingClient{})

	vec, err := c.EmbedQuery(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 0.5}, vec)
}

func TestEmbeddingCache_CorruptEntryIsReplaced(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{}
	client := NewMemoryClient(10)
	key := EmbeddingKey("", "query", "abc")
	require.NoError(t, client.Set(ctx, key, []byte("not json"), 0))

	vec, err := NewEmbeddingCache(next, client).EmbedQuery(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 0.5}, vec)
	assert.Equal(t, 1, next.queries)

	data, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, "[3,0.5]", string(data))
}

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, err := NewMemoryClient(1).Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("expiry", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		c := NewMemoryClient(1)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		now = now.Add(2 * time.Minute)
		_, err = c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("eviction at capacity", func(t *testing.T) {
		c := NewMemoryClient(2)
		require.NoError(t, c.Set(ctx, "soon", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "later", []byte("2"), time.Hour))
		require.NoError(t, c.Set(ctx, "new", []byte("3"), time.Hour))

		_, err := c.Get(ctx, "soon")
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = c.Get(ctx, "later")
		assert.NoError(t, err)
		_, err = c.Get(ctx, "new")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemoryClient(2)
		require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, c.Delete(ctx, "k"))
		_, err := c.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "emb:m:query", Key("emb", "m", "query"))
}
