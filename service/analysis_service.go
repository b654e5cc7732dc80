package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casevalue-backend/confidence"
	"casevalue-backend/currency"
	"casevalue-backend/features"
	"casevalue-backend/metrics"
	"casevalue-backend/models"
	"casevalue-backend/prompt"
	"casevalue-backend/repository"
	"casevalue-backend/retrieval"
	"casevalue-backend/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEmbeddingFailed  = errors.New("failed to generate embedding")
	ErrRetrievalFailed  = errors.New("failed to retrieve similar cases")
	ErrGenerationFailed = errors.New("failed to generate analysis")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrStoreUnavailable = errors.New("analysis store not configured")
	ErrInvalidCase      = errors.New("case must have a title or description")
	ErrIndexFailed      = errors.New("failed to index case")
	errNotConfigured    = errors.New("collaborator not configured")
)

const (
	defaultTopK    = 5
	maxRetries     = 3
	initialBackoff = time.Second
)

// Result text for analyses that end early
const (
	NoComparablesPrediction  = "Unable to find similar cases for analysis"
	NoComparablesExplanation = "No similar cases found for comparison."
	ClassificationVeryLow    = "Very Low Confidence"
	ClassificationError      = "Error"
)

// Embedder turns text into a vector
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// CaseSearcher finds the nearest corpus cases to an embedding
type CaseSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SimilarCase, error)
}

// CaseIndexer writes corpus cases
type CaseIndexer interface {
	Upsert(ctx context.Context, c *models.CorpusCase) error
}

// Generator is the text-completion collaborator
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AnalysisStore persists analysis results
type AnalysisStore interface {
	Create(ctx context.Context, a *models.AnalysisResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error)
}

// AnalysisService runs the settlement prediction pipeline
type AnalysisService struct {
	embedder  Embedder
	searcher  CaseSearcher
	indexer   CaseIndexer
	generator Generator
	store     AnalysisStore
	archive   storage.Storage

	extractor *features.Extractor
	scorer    *confidence.Scorer
	reranker  *retrieval.Reranker
	assembler *prompt.Assembler

	metrics    *metrics.Manager
	log        *logrus.Entry
	topK       int
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithEmbedder sets the embedding collaborator
func WithEmbedder(e Embedder) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.embedder = e
	}
}

// WithCaseSearcher sets the similarity search collaborator
func WithCaseSearcher(cs CaseSearcher) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.searcher = cs
	}
}

// WithCaseIndexer sets the corpus writer
func WithCaseIndexer(ci CaseIndexer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.indexer = ci
	}
}

// WithGenerator sets the text generation collaborator
func WithGenerator(g Generator) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.generator = g
	}
}

// WithAnalysisStore sets the result store
func WithAnalysisStore(store AnalysisStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.store = store
	}
}

// WithArchive sets the report archive
func WithArchive(archive storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.archive = archive
	}
}

// WithExtractor replaces the default feature extractor
func WithExtractor(e *features.Extractor) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.extractor = e
	}
}

// WithScorer replaces the default confidence scorer
func WithScorer(sc *confidence.Scorer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.scorer = sc
	}
}

// WithReranker replaces the default re-ranker
func WithReranker(r *retrieval.Reranker) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.reranker = r
	}
}

// WithAssembler sets the prompt assembler
func WithAssembler(a *prompt.Assembler) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.assembler = a
	}
}

// WithMetrics sets the metrics manager
func WithMetrics(m *metrics.Manager) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Entry) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.log = log
	}
}

// WithTopK sets the default number of comparables
func WithTopK(k int) AnalysisServiceOption {
	return func(s *AnalysisService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithRetry sets the generation attempt count and initial backoff
func WithRetry(attempts int, backoff time.Duration) AnalysisServiceOption {
	return func(s *AnalysisService) {
		if attempts > 0 {
			s.maxRetries = attempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// WithClock sets the time source for result timestamps
func WithClock(now func() time.Time) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}

// NewAnalysisService creates a new analysis service. The core components
// default to their standard tables.
func NewAnalysisService(opts ...AnalysisServiceOption) (*AnalysisService, error) {
	s := &AnalysisService{
		topK:       defaultTopK,
		maxRetries: maxRetries,
		backoff:    initialBackoff,
		now:        time.Now,
		log:        logrus.WithField("component", "analysis_service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.extractor == nil {
		s.extractor = features.NewExtractor(features.WithLogger(s.log))
	}
	if s.scorer == nil {
		s.scorer = confidence.NewScorer(confidence.WithLogger(s.log))
	}
	if s.reranker == nil {
		s.reranker = retrieval.NewReranker()
	}
	if s.assembler == nil {
		a, err := prompt.NewAssembler()
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt templates: %w", err)
		}
		s.assembler = a
	}

	return s, nil
}

// AnalyzeCaseRequest is the input to AnalyzeCase
type AnalyzeCaseRequest struct {
	Case models.CaseRecord
	TopK int
}

// AnalyzeCaseResult wraps the analysis produced by AnalyzeCase
type AnalyzeCaseResult struct {
	Analysis *models.AnalysisResult
}

// ExtractFeatures runs feature extraction alone
func (s *AnalysisService) ExtractFeatures(c models.CaseRecord) models.ExtractedFeatures {
	return s.extractor.Extract(c)
}

// AnalyzeCase predicts a settlement value for a case. A collaborator
// failure still returns a result, with status failed, together with an
// error wrapping ErrEmbeddingFailed, ErrRetrievalFailed or
// ErrGenerationFailed. Finding no comparable cases is not an error.
func (s *AnalysisService) AnalyzeCase(ctx context.Context, req AnalyzeCaseRequest) (*AnalyzeCaseResult, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	analysis := &models.AnalysisResult{
		ID:           uuid.New(),
		CaseTitle:    req.Case.Title,
		SimilarCases: models.SimilarCases{},
		CreatedAt:    s.now().UTC(),
	}
	log := s.log.WithFields(logrus.Fields{
		"analysis_id": analysis.ID,
		"case_title":  req.Case.Title,
	})

	var f models.ExtractedFeatures
	s.timed(metrics.StageFeatures, func() {
		f = s.extractor.Extract(req.Case)
	})
	analysis.ExtractedFeatures = &f

	var (
		embedding []float32
		err       error
	)
	s.timed(metrics.StageEmbedding, func() {
		embedding, err = s.embedQuery(ctx, EmbeddingText(req.Case, f))
	})
	if err != nil {
		return s.fail(ctx, log, analysis, metrics.StageEmbedding, ErrEmbeddingFailed, err)
	}

	var candidates []models.SimilarCase
	s.timed(metrics.StageSearch, func() {
		candidates, err = s.search(ctx, embedding, 2*topK)
	})
	if err != nil {
		return s.fail(ctx, log, analysis, metrics.StageSearch, ErrRetrievalFailed, err)
	}

	var similar []models.SimilarCase
	s.timed(metrics.StageRerank, func() {
		similar = s.reranker.Rerank(candidates, retrieval.Query{
			Features:    f,
			InjuryTypes: req.Case.InjuryTypes,
		}, topK)
	})

	if len(similar) == 0 {
		analysis.Status = models.AnalysisStatusNoComparables
		analysis.Prediction = NoComparablesPrediction
		analysis.Summary = models.ConfidenceSummary{
			OverallScore:   0,
			Classification: ClassificationVeryLow,
			Explanation:    NoComparablesExplanation,
		}
		log.Info("No comparable cases found")
		s.finish(ctx, log, analysis)
		return &AnalyzeCaseResult{Analysis: analysis}, nil
	}

	text := s.assembler.Build(req.Case, f, similar)
	analysis.PromptChars = len(text)

	var generated string
	s.timed(metrics.StageGeneration, func() {
		generated, err = s.generate(ctx, log, text)
	})
	if err != nil {
		return s.fail(ctx, log, analysis, metrics.StageGeneration, ErrGenerationFailed, err)
	}

	pointEstimate := currency.ExtractPrediction(generated, currency.DefaultPrediction)

	var combined models.CombinedConfidence
	s.timed(metrics.StageConfidence, func() {
		combined = s.scorer.CalculateCombinedConfidence(req.Case, f, pointEstimate, similar)
	})

	analysis.Status = models.AnalysisStatusCompleted
	analysis.Prediction = generated
	analysis.PredictedSettlement = pointEstimate
	analysis.SimilarCases = similar
	analysis.Confidence = &combined
	analysis.Summary = models.ConfidenceSummary{
		OverallScore:   combined.Consensus.Score,
		Classification: combined.Consensus.Classification,
		Explanation:    combined.Consensus.Explanation,
	}
	s.metrics.ObserveConfidence(combined.Consensus.Score)

	log.WithFields(logrus.Fields{
		"similar_cases":  len(similar),
		"point_estimate": pointEstimate,
		"confidence":     combined.Consensus.Score,
		"classification": combined.Consensus.Classification,
	}).Info("Case analyzed")

	s.finish(ctx, log, analysis)
	return &AnalyzeCaseResult{Analysis: analysis}, nil
}

func (s *AnalysisService) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, errNotConfigured
	}
	return s.embedder.EmbedQuery(ctx, text)
}

func (s *AnalysisService) search(ctx context.Context, embedding []float32, limit int) ([]models.SimilarCase, error) {
	if s.searcher == nil {
		return nil, errNotConfigured
	}
	return s.searcher.SearchSimilar(ctx, embedding, limit)
}

// generate calls the generator with doubling backoff. Empty output counts
// as a failed attempt.
func (s *AnalysisService) generate(ctx context.Context, log *logrus.Entry, text string) (string, error) {
	if s.generator == nil {
		return "", errNotConfigured
	}

	backoff := s.backoff
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		out, err := s.generator.Generate(ctx, text)
		if err == nil && strings.TrimSpace(out) != "" {
			return out, nil
		}
		if err == nil {
			err = errors.New("empty response")
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt+1).Warn("Generation attempt failed")
	}

	return "", fmt.Errorf("after %d attempts: %w", s.maxRetries, lastErr)
}

// fail turns a collaborator error into a failed analysis and a wrapped sentinel.
func (s *AnalysisService) fail(ctx context.Context, log *logrus.Entry, analysis *models.AnalysisResult,
	component string, sentinel, cause error) (*AnalyzeCaseResult, error) {
	err := fmt.Errorf("%w: %w", sentinel, cause)

	analysis.Status = models.AnalysisStatusFailed
	analysis.Prediction = "Error analyzing case: " + err.Error()
	analysis.PredictedSettlement = 0
	analysis.SimilarCases = models.SimilarCases{}
	analysis.ExtractedFeatures = nil
	analysis.Confidence = nil
	analysis.Summary = models.ConfidenceSummary{
		OverallScore:   0,
		Classification: ClassificationError,
		Explanation:    "An error occurred during analysis: " + err.Error(),
	}

	s.metrics.RecordCollaboratorError(component)
	log.WithError(err).WithField("stage", component).Error("Case analysis failed")

	s.finish(ctx, log, analysis)
	return &AnalyzeCaseResult{Analysis: analysis}, err
}

// finish archives and persists the result. Failures are logged only.
func (s *AnalysisService) finish(ctx context.Context, log *logrus.Entry, analysis *models.AnalysisResult) {
	s.metrics.RecordAnalysis(string(analysis.Status))

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	defer func() { s.metrics.ObserveStage(metrics.StagePersist, time.Since(start)) }()

	if s.archive != nil {
		path, err := storage.ArchiveJSON(ctx, s.archive, analysis.ID, storage.ReportFilename, analysis)
		if err != nil {
			s.metrics.RecordCollaboratorError("archive")
			log.WithError(err).Warn("Failed to archive analysis report")
		} else {
			analysis.ReportPath = &path
		}
	}

	if s.store != nil {
		if err := s.store.Create(ctx, analysis); err != nil {
			s.metrics.RecordCollaboratorError("store")
			log.WithError(err).Warn("Failed to persist analysis")
		}
	}
}

func (s *AnalysisService) timed(stage string, fn func()) {
	start := time.Now()
	fn()
	s.metrics.ObserveStage(stage, time.Since(start))
}

// GetAnalysis returns a stored analysis
func (s *AnalysisService) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	a, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrAnalysisNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// IndexCaseRequest describes a historical case to add to the corpus
type IndexCaseRequest struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Metadata        models.CaseMetadata
	SettlementValue *float64
}

// IndexCaseResult wraps the stored corpus case
type IndexCaseResult struct {
	Case *models.CorpusCase
}

// IndexCase embeds a historical case and upserts it into the corpus. A
// zero ID is replaced with a new one.
func (s *AnalysisService) IndexCase(ctx context.Context, req IndexCaseRequest) (*IndexCaseResult, error) {
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return nil, ErrInvalidCase
	}
	if s.embedder == nil || s.indexer == nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexFailed, errNotConfigured)
	}

	c := &models.CorpusCase{
		ID:              req.ID,
		Title:           req.Title,
		Description:     req.Description,
		Metadata:        req.Metadata,
		SettlementValue: req.SettlementValue,
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.SettlementValue == nil {
		c.SettlementValue = c.Metadata.SettlementValue
	}

	embedding, err := s.embedder.EmbedDocument(ctx, CorpusText(*c))
	if err != nil {
		s.metrics.RecordCollaboratorError(metrics.StageEmbedding)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	c.Embedding = embedding

	if err := s.indexer.Upsert(ctx, c); err != nil {
		s.metrics.RecordCollaboratorError("index")
		return nil, fmt.Errorf("%w: %w", ErrIndexFailed, err)
	}

	s.metrics.RecordIndexed()
	s.log.WithFields(logrus.Fields{
		"case_id":   c.ID,
		"case_type": c.Metadata.CaseType,
	}).Info("Case indexed")

	return &IndexCaseResult{Case: c}, nil
}
