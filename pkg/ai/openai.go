package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "psycheck",
		Subsystem: "ai",
		Name:      "scoring_duration_seconds",
		Help:      "Duration of rubric scoring requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "psycheck",
		Subsystem: "ai",
		Name:      "scoring_failures_total",
		Help:      "Number of rubric scoring failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI scorer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// OpenAIScorer implements Scorer against the OpenAI chat completion API.
type OpenAIScorer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIScorer builds a new scorer using the provided configuration.
func NewOpenAIScorer(cfg OpenAIConfig) (*OpenAIScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 3000
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	tracer := otel.Tracer("github.com/psycheck/psycheck-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIScorer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Score sends the grading request to OpenAI and parses the structured reply.
func (s *OpenAIScorer) Score(parent context.Context, input ScoreInput) (RubricResult, error) {
	ctx, span := s.tracer.Start(parent, "openai.score", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: scorerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	aiDuration.WithLabelValues(s.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RubricResult{}, fmt.Errorf("openai score: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RubricResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := ParseRubricReply(content)
	if err != nil {
		aiFailures.WithLabelValues(s.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn().Err(err).Msg("rubric reply rejected")
		return RubricResult{}, err
	}

	return result, nil
}

func scorerSystemPrompt() string {
	return "You are an examiner grading argumentative essays. Respond with a JSON object containing general_conclusion, conte" +
		"nt {content_conclusion, criterias [{criterion, score, feedback}]}, language {language_conclusion, criterias [{criteri" +
		"on, score, feedback}]}, and suggestions (array of strings). Scores are numbers between 0 and 6. Grade content on focu" +
		"s, position, argument quality and coherence; grade language on grammar, richness and fluency."
}

func buildUserPrompt(input ScoreInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Question\n")
	builder.WriteString(input.Question)
	builder.WriteString("\n\n# Essay\n")
	builder.WriteString(input.Essay)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
