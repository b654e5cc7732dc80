package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultEmbeddingTTL keeps embeddings for a week.
const DefaultEmbeddingTTL = 7 * 24 * time.Hour

// Embedder is the embedding collaborator being cached.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// LookupRecorder observes cache hits and misses.
type LookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// EmbeddingCache is an Embedder that serves repeated texts from a Client.
// Cache failures fall through to the wrapped embedder.
type EmbeddingCache struct {
	next     Embedder
	client   Client
	ttl      time.Duration
	model    string
	recorder LookupRecorder
	log      *logrus.Entry
}

// EmbeddingCacheOption is a functional option for EmbeddingCache
type EmbeddingCacheOption func(*EmbeddingCache)

// WithTTL sets the entry lifetime
func WithTTL(ttl time.Duration) EmbeddingCacheOption {
	return func(c *EmbeddingCache) {
		c.ttl = ttl
	}
}

// WithModel scopes keys to an embedding model
func WithModel(model string) EmbeddingCacheOption {
	return func(c *EmbeddingCache) {
		c.model = model
	}
}

// WithRecorder reports every lookup
func WithRecorder(r LookupRecorder) EmbeddingCacheOption {
	return func(c *EmbeddingCache) {
		c.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Entry) EmbeddingCacheOption {
	return func(c *EmbeddingCache) {
		c.log = log
	}
}

// NewEmbeddingCache wraps next with client.
func NewEmbeddingCache(next Embedder, client Client, opts ...EmbeddingCacheOption) *EmbeddingCache {
	c := &EmbeddingCache{
		next:   next,
		client: client,
		ttl:    DefaultEmbeddingTTL,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EmbedQuery implements Embedder.
func (c *EmbeddingCache) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.lookup(ctx, "query", text, c.next.EmbedQuery)
}

// EmbedDocument implements Embedder.
func (c *EmbeddingCache) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.lookup(ctx, "document", text, c.next.EmbedDocument)
}

// EmbeddingKey is the cache key for text under task and model.
func EmbeddingKey(model, task, text string) string {
	sum := sha256.Sum256([]byte(text))
	return Key("emb", model, task, hex.EncodeToString(sum[:]))
}

func (c *EmbeddingCache) lookup(ctx context.Context, task, text string,
	embed func(context.Context, string) ([]float32, error)) ([]float32, error) {
	key := EmbeddingKey(c.model, task, text)

	data, err := c.client.Get(ctx, key)
	switch {
	case err == nil:
		var vec []float32
		if jerr := json.Unmarshal(data, &vec); jerr == nil {
			c.record(true)
			return vec, nil
		}
		c.log.WithField("key", key).Warn("Discarding undecodable cached embedding")
	case !errors.Is(err, ErrCacheMiss):
		c.log.WithError(err).Warn("Embedding cache read failed")
	}
	c.record(false)

	vec, err := embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
			c.log.WithError(err).Warn("Embedding cache write failed")
		}
	}
	return vec, nil
}

func (c *EmbeddingCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordCacheLookup(hit)
	}
}
