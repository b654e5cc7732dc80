// Package gemini wraps the Gemini embedding REST endpoint and the
// generative-ai-go SDK behind the collaborator interfaces the analysis
// service depends on.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrMissingAPIKey     = errors.New("gemini api key not set")
	ErrEmbeddingFailed   = errors.New("failed to generate embedding")
	ErrRequestRejected   = errors.New("gemini rejected the request")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrGenerationFailed  = errors.New("failed to generate content")
	ErrPromptBlocked     = errors.New("gemini blocked the prompt")
)

const (
	DefaultEmbeddingEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	DefaultEmbeddingModel    = "models/gemini-embedding-001"
	DefaultDimension         = 768

	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"

	maxRetries     = 3
	initialBackoff = time.Second
	requestTimeout = 30 * time.Second
)

type embeddingRequest struct {
	Model                string       `json:"model"`
	Content              contentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

type contentInput struct {
	Parts []partInput `json:"parts"`
}

type partInput struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embedder calls the embedContent endpoint.
type Embedder struct {
	apiKey     string
	endpoint   string
	model      string
	dimension  int
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	log        *logrus.Entry
}

// EmbedderOption is a functional option for Embedder
type EmbedderOption func(*Embedder)

// EmbedWithEndpoint overrides the embedContent URL
func EmbedWithEndpoint(url string) EmbedderOption {
	return func(e *Embedder) {
		if url != "" {
			e.endpoint = url
		}
	}
}

// EmbedWithModel sets the embedding model name
func EmbedWithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// EmbedWithDimension sets the requested output dimensionality
func EmbedWithDimension(dim int) EmbedderOption {
	return func(e *Embedder) {
		if dim > 0 {
			e.dimension = dim
		}
	}
}

// EmbedWithRetry sets the attempt count and the initial backoff
func EmbedWithRetry(attempts int, backoff time.Duration) EmbedderOption {
	return func(e *Embedder) {
		if attempts > 0 {
			e.maxRetries = attempts
		}
		if backoff >= 0 {
			e.backoff = backoff
		}
	}
}

// EmbedWithHTTPClient replaces the default 30s client
func EmbedWithHTTPClient(c *http.Client) EmbedderOption {
	return func(e *Embedder) {
		e.httpClient = c
	}
}

// EmbedWithLogger sets the logger
func EmbedWithLogger(log *logrus.Entry) EmbedderOption {
	return func(e *Embedder) {
		e.log = log
	}
}

// NewEmbedder creates an embedder for apiKey
func NewEmbedder(apiKey string, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		apiKey:     apiKey,
		endpoint:   DefaultEmbeddingEndpoint,
		model:      DefaultEmbeddingModel,
		dimension:  DefaultDimension,
		maxRetries: maxRetries,
		backoff:    initialBackoff,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimension is the vector length Embed returns.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// EmbedQuery embeds text for similarity search.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.Embed(ctx, text, TaskRetrievalQuery)
}

// EmbedDocument embeds text for storage in the corpus.
func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return e.Embed(ctx, text, TaskRetrievalDocument)
}

// Embed returns the L2-normalized embedding of text. Transport errors and
// non-2xx responses are retried with doubling backoff, except 400 and 401.
func (e *Embedder) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	if e.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	jsonData, err := json.Marshal(embeddingRequest{
		Model:                e.model,
		Content:              contentInput{Parts: []partInput{{Text: text}}},
		TaskType:             taskType,
		OutputDimensionality: e.dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := e.backoff
	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		values, retry, err := e.do(ctx, jsonData)
		if err == nil {
			return values, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
		e.log.WithError(err).WithField("attempt", attempt+1).Warn("Embedding request failed")
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrEmbeddingFailed, e.maxRetries, lastErr)
}

// do performs one request. retry reports whether the failure is transient.
func (e *Embedder) do(ctx context.Context, body []byte) (values []float32, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, false, fmt.Errorf("%w: %d - %s", ErrRequestRejected, resp.StatusCode, bytes.TrimSpace(msg))
		}
		return nil, true, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, true, fmt.Errorf("failed to decode response: %w", err)
	}

	if got := len(apiResp.Embedding.Values); got != e.dimension {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, got, e.dimension)
	}

	return normalize(apiResp.Embedding.Values), false, nil
}

// normalize scales v to unit length. A zero vector is returned as is.
func normalize(v []float64) []float32 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	for i, x := range v {
		if norm > 0 {
			x /= norm
		}
		out[i] = float32(x)
	}
	return out
}
