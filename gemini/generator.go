package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
)

const (
	DefaultGenerationModel = "gemini-1.5-pro"
	DefaultTemperature     = 0.3
	DefaultMaxTokens       = 2000

	SystemInstruction = "You are a legal expert assistant that analyzes cases and predicts settlement outcomes " +
		"with detailed confidence assessments."
)

// Generator produces the analysis text through the genai SDK. It makes a
// single call; retries belong to the caller.
type Generator struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	log         *logrus.Entry
}

// GeneratorOption is a functional option for Generator
type GeneratorOption func(*Generator)

// GenerateWithModel sets the model name
func GenerateWithModel(model string) GeneratorOption {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// GenerateWithTemperature sets the sampling temperature
func GenerateWithTemperature(t float32) GeneratorOption {
	return func(g *Generator) {
		g.temperature = t
	}
}

// GenerateWithMaxTokens sets the output token limit
func GenerateWithMaxTokens(n int32) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// GenerateWithLogger sets the logger
func GenerateWithLogger(log *logrus.Entry) GeneratorOption {
	return func(g *Generator) {
		g.log = log
	}
}

// NewGenerator creates a generator on an initialized genai client
func NewGenerator(client *genai.Client, opts ...GeneratorOption) *Generator {
	g := &Generator{
		client:      client,
		model:       DefaultGenerationModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		log:         logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends prompt under the legal expert system instruction.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.SetMaxOutputTokens(g.maxTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return responseText(resp, g.log)
}

// responseText concatenates the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse, log *logrus.Entry) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("%w: %s", ErrPromptBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrGenerationFailed)
	}

	var b strings.Builder
	for i, c := range resp.Candidates {
		if c.FinishReason != genai.FinishReasonUnspecified && c.FinishReason != genai.FinishReasonStop {
			log.WithFields(logrus.Fields{
				"candidate":     i,
				"finish_reason": c.FinishReason.String(),
			}).Warn("Candidate finished early")
		}
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: empty content", ErrGenerationFailed)
	}
	return b.String(), nil
}
