package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"casevalue-backend/currency"
	"casevalue-backend/metrics"
	"casevalue-backend/models"
	"casevalue-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector  []float32
	err     error
	queries []string
	docs    []string
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	return f.vector, f.err
}

func (f *fakeEmbedder) EmbedDocument(_ context.Context, text string) ([]float32, error) {
	f.docs = append(f.docs, text)
	return f.vector, f.err
}

type fakeSearcher struct {
	results []models.SimilarCase
	err     error
	limit   int
}

func (f *fakeSearcher) SearchSimilar(_ context.Context, _ []float32, limit int) ([]models.SimilarCase, error) {
	f.limit = limit
	return f.results, f.err
}

type fakeGenerator struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)

	var out string
	var err error
	if i < len(f.responses) {
		out = f.responses[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

type fakeStore struct {
	mu      sync.Mutex
	created []*models.AnalysisResult
	err     error
}

func (f *fakeStore) Create(_ context.Context, a *models.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, a)
	return f.err
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrAnalysisNotFound
}

type fakeArchive struct {
	uploads map[string][]byte
	err     error
}

func (f *fakeArchive) Upload(_ context.Context, id uuid.UUID, filename string, data io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	path := id.String() + "/" + filename
	f.uploads[path] = b
	return path, nil
}

func (f *fakeArchive) Download(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.uploads[path])), nil
}

func (f *fakeArchive) Delete(_ context.Context, path string) error {
	delete(f.uploads, path)
	return nil
}

type fakeIndexer struct {
	cases []*models.CorpusCase
	err   error
}

func (f *fakeIndexer) Upsert(_ context.Context, c *models.CorpusCase) error {
	f.cases = append(f.cases, c)
	return f.err
}

func ptr(v float64) *float64 { return &v }

func testCase() models.CaseRecord {
	return models.CaseRecord{
		Title:         "Rear-end collision on I-35",
		Court:         "Travis County District Court, Texas",
		DateFiled:     "2023-03-15",
		ClaimType:     "Personal injury - motor vehicle negligence",
		Facts:         "Defendant ran a red light and struck the plaintiff's vehicle. Police report and dashcam video support liability.",
		InjuryDetails: "Whiplash and a herniated disc requiring physical therapy.",
		InjuryTypes:   []string{"whiplash", "herniated disc"},
		Damages:       85000,
	}
}

func comparables() []models.SimilarCase {
	return []models.SimilarCase{
		{
			ID: "a", Title: "Intersection collision", Similarity: 0.82,
			Description: "Plaintiff settled for $95,000 after a red light collision.",
			Metadata: models.CaseMetadata{
				CaseType: models.CaseTypePersonalInjury, Jurisdiction: "texas",
				Damages: ptr(80000), InjuryTypes: []string{"whiplash"},
				SettlementValue: ptr(95000),
			},
		},
		{
			ID: "b", Title: "Highway rear-end", Similarity: 0.77,
			Description: "Case resolved at mediation.",
			Metadata: models.CaseMetadata{
				CaseType: models.CaseTypePersonalInjury, Jurisdiction: "texas",
				Damages: ptr(90000), InjuryTypes: []string{"herniated disc"},
				SettlementValue: ptr(110000),
			},
		},
		{
			ID: "c", Title: "Lease dispute", Similarity: 0.75,
			Metadata: models.CaseMetadata{CaseType: models.CaseTypeContractDispute, Jurisdiction: "california"},
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, opts ...AnalysisServiceOption) *AnalysisService {
	t.Helper()
	base := []AnalysisServiceOption{
		WithRetry(3, 0),
		WithClock(fixedClock),
		WithTopK(2),
	}
	s, err := NewAnalysisService(append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func scrape(t *testing.T, m *metrics.Manager) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestAnalyzeCase_Completed(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	searcher := &fakeSearcher{results: comparables()}
	generator := &fakeGenerator{responses: []string{
		"Based on the comparables, the most likely settlement value is $100,000.",
	}}
	store := &fakeStore{}
	archive := &fakeArchive{}
	m := metrics.NewManager()

	s := newTestService(t,
		WithEmbedder(embedder),
		WithCaseSearcher(searcher),
		WithGenerator(generator),
		WithAnalysisStore(store),
		WithArchive(archive),
		WithMetrics(m),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)
	a := res.Analysis

	assert.Equal(t, models.AnalysisStatusCompleted, a.Status)
	assert.Equal(t, 100000.0, a.PredictedSettlement)
	assert.Equal(t, fixedClock(), a.CreatedAt)
	assert.Equal(t, "Rear-end collision on I-35", a.CaseTitle)
	assert.Equal(t, 4, searcher.limit)

	require.Len(t, a.SimilarCases, 2)
	for _, c := range a.SimilarCases {
		assert.NotEqual(t, "c", c.ID)
		assert.NotNil(t, c.OriginalSimilarity)
		assert.NotNil(t, c.FeatureSimilarity)
	}

	require.NotNil(t, a.Confidence)
	assert.Equal(t, a.Confidence.Consensus.Score, a.Summary.OverallScore)
	assert.Equal(t, a.Confidence.Consensus.Classification, a.Summary.Classification)
	assert.Equal(t, a.Confidence.Consensus.Explanation, a.Summary.Explanation)
	assert.GreaterOrEqual(t, a.Summary.OverallScore, 1.0)
	assert.LessOrEqual(t, a.Summary.OverallScore, 10.0)

	require.NotNil(t, a.ExtractedFeatures)
	assert.Equal(t, models.CaseTypePersonalInjury, a.ExtractedFeatures.CaseCharacteristics.CaseType.PrimaryType)

	require.Len(t, generator.prompts, 1)
	assert.Equal(t, len(generator.prompts[0]), a.PromptChars)
	assert.Contains(t, generator.prompts[0], "Rear-end collision on I-35")
	assert.Contains(t, generator.prompts[0], "Intersection collision")

	require.Len(t, embedder.queries, 1)
	assert.True(t, strings.HasPrefix(embedder.queries[0], "Title: Rear-end collision on I-35\n"))
	assert.Contains(t, embedder.queries[0], "Damages: $85,000.00\n")
	assert.Contains(t, embedder.queries[0], "\nExtracted Features:\n")

	require.Len(t, store.created, 1)
	assert.Same(t, a, store.created[0])
	require.NotNil(t, a.ReportPath)
	assert.Contains(t, archive.uploads, *a.ReportPath)

	body := scrape(t, m)
	assert.Contains(t, body, `casevalue_analysis_analyses_total{status="completed"} 1`)
	assert.Contains(t, body, `casevalue_analysis_stage_duration_seconds_count{stage="generation"} 1`)
}

func TestAnalyzeCase_RequestTopK(t *testing.T) {
	searcher := &fakeSearcher{results: comparables()}
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(searcher),
		WithGenerator(&fakeGenerator{responses: []string{"Likely settlement near $50,000."}}),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase(), TopK: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.limit)
	assert.Len(t, res.Analysis.SimilarCases, 1)
	assert.Nil(t, res.Analysis.ReportPath)
}

func TestAnalyzeCase_NoComparables(t *testing.T) {
	generator := &fakeGenerator{}
	store := &fakeStore{}
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{}),
		WithGenerator(generator),
		WithAnalysisStore(store),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)
	a := res.Analysis

	assert.Equal(t, models.AnalysisStatusNoComparables, a.Status)
	assert.Equal(t, NoComparablesPrediction, a.Prediction)
	assert.Equal(t, models.ConfidenceSummary{
		OverallScore:   0,
		Classification: ClassificationVeryLow,
		Explanation:    NoComparablesExplanation,
	}, a.Summary)
	assert.Nil(t, a.Confidence)
	assert.Empty(t, a.SimilarCases)
	assert.NotNil(t, a.ExtractedFeatures)
	assert.Empty(t, generator.prompts)
	assert.Len(t, store.created, 1)
}

func TestAnalyzeCase_CollaboratorFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		embedder  *fakeEmbedder
		searcher  *fakeSearcher
		generator *fakeGenerator
		sentinel  error
		stage     string
		prompts   int
	}{
		{
			name:      "embedding",
			embedder:  &fakeEmbedder{err: boom},
			searcher:  &fakeSearcher{results: comparables()},
			generator: &fakeGenerator{},
			sentinel:  ErrEmbeddingFailed,
			stage:     metrics.StageEmbedding,
		},
		{
			name:      "search",
			embedder:  &fakeEmbedder{vector: []float32{1}},
			searcher:  &fakeSearcher{err: boom},
			generator: &fakeGenerator{},
			sentinel:  ErrRetrievalFailed,
			stage:     metrics.StageSearch,
		},
		{
			name:      "generation exhausts retries",
			embedder:  &fakeEmbedder{vector: []float32{1}},
			searcher:  &fakeSearcher{results: comparables()},
			generator: &fakeGenerator{errs: []error{boom, boom, boom}},
			sentinel:  ErrGenerationFailed,
			stage:     metrics.StageGeneration,
			prompts:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			m := metrics.NewManager()
			s := newTestService(t,
				WithEmbedder(tt.embedder),
				WithCaseSearcher(tt.searcher),
				WithGenerator(tt.generator),
				WithAnalysisStore(store),
				WithMetrics(m),
			)

			res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, boom)

			require.NotNil(t, res)
			a := res.Analysis
			assert.Equal(t, models.AnalysisStatusFailed, a.Status)
			assert.Equal(t, "Error analyzing case: "+err.Error(), a.Prediction)
			assert.Equal(t, 0.0, a.Summary.OverallScore)
			assert.Equal(t, ClassificationError, a.Summary.Classification)
			assert.Equal(t, "An error occurred during analysis: "+err.Error(), a.Summary.Explanation)
			assert.Nil(t, a.Confidence)
			assert.Nil(t, a.ExtractedFeatures)
			assert.Empty(t, a.SimilarCases)
			assert.Len(t, tt.generator.prompts, tt.prompts)
			assert.Len(t, store.created, 1)

			body := scrape(t, m)
			assert.Contains(t, body, `casevalue_analysis_analyses_total{status="failed"} 1`)
			assert.Contains(t, body, `casevalue_analysis_collaborator_errors_total{component="`+tt.stage+`"} 1`)
		})
	}
}

func TestAnalyzeCase_GenerationRetries(t *testing.T) {
	generator := &fakeGenerator{
		responses: []string{"", "", "The settlement value of $72,500 is most probable."},
		errs:      []error{errors.New("unavailable")},
	}
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{results: comparables()}),
		WithGenerator(generator),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)
	assert.Len(t, generator.prompts, 3)
	assert.Equal(t, models.AnalysisStatusCompleted, res.Analysis.Status)
	assert.Equal(t, 72500.0, res.Analysis.PredictedSettlement)
}

func TestAnalyzeCase_DefaultPrediction(t *testing.T) {
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{results: comparables()}),
		WithGenerator(&fakeGenerator{responses: []string{"Insufficient data for a figure."}}),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)
	assert.Equal(t, currency.DefaultPrediction, res.Analysis.PredictedSettlement)
}

func TestAnalyzeCase_CancelledDuringRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	generator := &fakeGenerator{errs: []error{errors.New("unavailable")}}
	s, err := NewAnalysisService(
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{results: comparables()}),
		WithGenerator(&cancellingGenerator{fakeGenerator: generator, cancel: cancel}),
		WithRetry(3, time.Hour),
	)
	require.NoError(t, err)

	res, err := s.AnalyzeCase(ctx, AnalyzeCaseRequest{Case: testCase()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, models.AnalysisStatusFailed, res.Analysis.Status)
	assert.Len(t, generator.prompts, 1)
}

type cancellingGenerator struct {
	*fakeGenerator
	cancel context.CancelFunc
}

func (g *cancellingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	defer g.cancel()
	return g.fakeGenerator.Generate(ctx, prompt)
}

func TestAnalyzeCase_PersistenceFailuresAreNotFatal(t *testing.T) {
	m := metrics.NewManager()
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{results: comparables()}),
		WithGenerator(&fakeGenerator{responses: []string{"Likely settlement of $60,000."}}),
		WithAnalysisStore(&fakeStore{err: errors.New("db down")}),
		WithArchive(&fakeArchive{err: errors.New("bucket gone")}),
		WithMetrics(m),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, res.Analysis.Status)
	assert.Nil(t, res.Analysis.ReportPath)

	body := scrape(t, m)
	assert.Contains(t, body, `casevalue_analysis_collaborator_errors_total{component="archive"} 1`)
	assert.Contains(t, body, `casevalue_analysis_collaborator_errors_total{component="store"} 1`)
}

func TestAnalyzeCase_NotConfigured(t *testing.T) {
	s := newTestService(t)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Equal(t, models.AnalysisStatusFailed, res.Analysis.Status)
}

func TestGetAnalysis(t *testing.T) {
	store := &fakeStore{}
	s := newTestService(t,
		WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
		WithCaseSearcher(&fakeSearcher{}),
		WithAnalysisStore(store),
	)

	res, err := s.AnalyzeCase(context.Background(), AnalyzeCaseRequest{Case: testCase()})
	require.NoError(t, err)

	got, err := s.GetAnalysis(context.Background(), res.Analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Analysis.ID, got.ID)

	_, err = s.GetAnalysis(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAnalysisNotFound)

	_, err = newTestService(t).GetAnalysis(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestIndexCase(t *testing.T) {
	t.Run("embeds and upserts", func(t *testing.T) {
		embedder := &fakeEmbedder{vector: []float32{0.5, 0.5}}
		indexer := &fakeIndexer{}
		m := metrics.NewManager()
		s := newTestService(t, WithEmbedder(embedder), WithCaseIndexer(indexer), WithMetrics(m))

		res, err := s.IndexCase(context.Background(), IndexCaseRequest{
			Title:       "Slip and fall at grocery store",
			Description: "Customer slipped on an unmarked wet floor and settled for $40,000.",
			Metadata: models.CaseMetadata{
				CaseType:        models.CaseTypePersonalInjury,
				Jurisdiction:    "florida",
				Damages:         ptr(25000),
				SettlementValue: ptr(40000),
			},
		})
		require.NoError(t, err)

		c := res.Case
		assert.NotEqual(t, uuid.Nil, c.ID)
		require.NotNil(t, c.SettlementValue)
		assert.Equal(t, 40000.0, *c.SettlementValue)
		assert.Equal(t, []float32{0.5, 0.5}, c.Embedding)
		require.Len(t, indexer.cases, 1)

		require.Len(t, embedder.docs, 1)
		assert.Contains(t, embedder.docs[0], "Title: Slip and fall at grocery store\n")
		assert.Contains(t, embedder.docs[0], "Jurisdiction: florida\n")
		assert.Contains(t, embedder.docs[0], "Damages: $25,000.00\n")
		assert.Empty(t, embedder.queries)

		assert.Contains(t, scrape(t, m), "casevalue_analysis_cases_indexed_total 1")
	})

	t.Run("keeps a supplied id", func(t *testing.T) {
		id := uuid.New()
		s := newTestService(t, WithEmbedder(&fakeEmbedder{vector: []float32{1}}), WithCaseIndexer(&fakeIndexer{}))

		res, err := s.IndexCase(context.Background(), IndexCaseRequest{ID: id, Title: "Known case"})
		require.NoError(t, err)
		assert.Equal(t, id, res.Case.ID)
		assert.Nil(t, res.Case.SettlementValue)
	})

	t.Run("rejects an empty case", func(t *testing.T) {
		s := newTestService(t, WithEmbedder(&fakeEmbedder{}), WithCaseIndexer(&fakeIndexer{}))
		_, err := s.IndexCase(context.Background(), IndexCaseRequest{Title: "  "})
		assert.ErrorIs(t, err, ErrInvalidCase)
	})

	t.Run("wraps embedding errors", func(t *testing.T) {
		indexer := &fakeIndexer{}
		s := newTestService(t, WithEmbedder(&fakeEmbedder{err: errors.New("quota")}), WithCaseIndexer(indexer))
		_, err := s.IndexCase(context.Background(), IndexCaseRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrEmbeddingFailed)
		assert.Empty(t, indexer.cases)
	})

	t.Run("wraps upsert errors", func(t *testing.T) {
		s := newTestService(t,
			WithEmbedder(&fakeEmbedder{vector: []float32{1}}),
			WithCaseIndexer(&fakeIndexer{err: repository.ErrDimensionMismatch}),
		)
		_, err := s.IndexCase(context.Background(), IndexCaseRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrIndexFailed)
		assert.ErrorIs(t, err, repository.ErrDimensionMismatch)
	})

	t.Run("requires collaborators", func(t *testing.T) {
		_, err := newTestService(t).IndexCase(context.Background(), IndexCaseRequest{Title: "x"})
		assert.ErrorIs(t, err, ErrIndexFailed)
	})
}

func TestEmbeddingText_OmitsEmptyFields(t *testing.T) {
	s := newTestService(t)
	c := models.CaseRecord{Title: "Bare"}
	text := EmbeddingText(c, s.ExtractFeatures(c))

	assert.True(t, strings.HasPrefix(text, "Title: Bare\n\nExtracted Features:\n"))
	assert.NotContains(t, text, "Court:")
	assert.NotContains(t, text, "Damages:")
}
