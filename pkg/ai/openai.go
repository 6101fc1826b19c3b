package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mosab320010/-betc/internal/integrity"
	"github.com/mosab320010/-betc/internal/models"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "btec",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of AI evaluation requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "btec",
		Subsystem: "ai",
		Name:      "evaluation_failures_total",
		Help:      "Number of AI evaluation failures",
	}, []string{"model"})
)

// responseSchema constrains the JSON the model is allowed to return. The
// response is rejected before any field is trusted.
const responseSchema = `{
  "type": "object",
  "required": ["score", "feedback", "plagiarism", "chain_of_thought", "predictive_analysis"],
  "properties": {
    "score": {"type": "integer", "minimum": 0, "maximum": 100},
    "feedback": {"type": "string", "minLength": 1},
    "plagiarism": {
      "type": "object",
      "required": ["similarity_score", "is_plagiarized"],
      "properties": {
        "similarity_score": {"type": "integer", "minimum": 0, "maximum": 100},
        "sources": {"type": "array", "items": {"type": "string"}},
        "is_plagiarized": {"type": "boolean"}
      }
    },
    "chain_of_thought": {
      "type": "object",
      "required": ["task_understanding", "criteria_analysis", "strengths", "weaknesses", "scoring"],
      "properties": {
        "task_understanding": {"type": "array", "items": {"type": "string"}},
        "criteria_analysis": {"type": "object", "additionalProperties": {"type": "string"}},
        "strengths": {"type": "array", "items": {"type": "string"}},
        "weaknesses": {"type": "array", "items": {"type": "string"}},
        "scoring": {"type": "object", "additionalProperties": {"type": "integer"}}
      }
    },
    "predictive_analysis": {
      "type": "object",
      "required": ["confidence"],
      "properties": {
        "confidence": {"type": "number", "minimum": 0, "maximum": 1},
        "recommendations": {"type": "array", "items": {"type": "string"}},
        "learning_path": {"type": "array", "items": {"type": "string"}}
      }
    },
    "context_notes": {"type": "array", "items": {"type": "string"}}
  }
}`

// OpenAIConfig defines configuration options for the OpenAI evaluator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
	Now         func() time.Time
}

// OpenAIEvaluator grades submissions through the OpenAI chat completion API.
type OpenAIEvaluator struct {
	client *openai.Client
	cfg    OpenAIConfig
	schema *jsonschema.Schema
	tracer trace.Tracer
	logger zerolog.Logger
	now    func() time.Time
}

// NewOpenAIEvaluator builds a new evaluator using the provided configuration.
func NewOpenAIEvaluator(cfg OpenAIConfig) (*OpenAIEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	schema, err := jsonschema.CompileString("evaluation_response.json", responseSchema)
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		schema: schema,
		tracer: otel.Tracer("github.com/mosab320010/-betc/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_evaluator").Logger(),
		now:    now,
	}, nil
}

// Evaluate sends the grading request to OpenAI, validates the response
// against the schema, and assembles the final result with its integrity
// stamp.
func (e *OpenAIEvaluator) Evaluate(parent context.Context, submission models.TaskSubmission) (models.EvaluationResult, error) {
	ctx, span := e.tracer.Start(parent, "openai.evaluate", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.Int64("task_id", int64(submission.TaskID)),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: evaluatorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(submission),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return models.EvaluationResult{}, e.fail(span, fmt.Errorf("openai evaluate: %w", err))
	}

	if len(resp.Choices) == 0 {
		return models.EvaluationResult{}, e.fail(span, fmt.Errorf("no choices returned from openai"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	payload, err := e.parseResponse(content)
	if err != nil {
		return models.EvaluationResult{}, e.fail(span, err)
	}

	result, err := e.assemble(submission, payload)
	if err != nil {
		return models.EvaluationResult{}, e.fail(span, err)
	}

	return result, nil
}

func (e *OpenAIEvaluator) fail(span trace.Span, err error) error {
	aiFailures.WithLabelValues(e.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type responsePayload struct {
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
	Plagiarism struct {
		SimilarityScore int      `json:"similarity_score"`
		Sources         []string `json:"sources"`
		IsPlagiarized   bool     `json:"is_plagiarized"`
	} `json:"plagiarism"`
	ChainOfThought struct {
		TaskUnderstanding []string          `json:"task_understanding"`
		CriteriaAnalysis  map[string]string `json:"criteria_analysis"`
		Strengths         []string          `json:"strengths"`
		Weaknesses        []string          `json:"weaknesses"`
		Scoring           map[string]int    `json:"scoring"`
	} `json:"chain_of_thought"`
	PredictiveAnalysis struct {
		Confidence      float64  `json:"confidence"`
		Recommendations []string `json:"recommendations"`
		LearningPath    []string `json:"learning_path"`
	} `json:"predictive_analysis"`
	ContextNotes []string `json:"context_notes"`
}

func (e *OpenAIEvaluator) parseResponse(content string) (responsePayload, error) {
	var generic interface{}
	if err := json.Unmarshal([]byte(content), &generic); err != nil {
		return responsePayload{}, fmt.Errorf("parse evaluation json: %w", err)
	}

	if err := e.schema.Validate(generic); err != nil {
		return responsePayload{}, fmt.Errorf("evaluation response rejected by schema: %w", err)
	}

	var payload responsePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return responsePayload{}, fmt.Errorf("decode evaluation json: %w", err)
	}

	return payload, nil
}

// assemble maps the validated payload onto the domain result. Per-criterion
// entries follow the submission's rubric order, one entry per criterion; a
// criterion the model skipped gets a zero score and an empty analysis rather
// than vanishing from the report.
func (e *OpenAIEvaluator) assemble(submission models.TaskSubmission, payload responsePayload) (models.EvaluationResult, error) {
	score := clampScore(payload.Score)

	analysis := make([]models.CriterionAnalysis, 0, len(submission.Criteria))
	scoring := make([]models.CriterionScore, 0, len(submission.Criteria))
	for _, criterion := range submission.Criteria {
		analysis = append(analysis, models.CriterionAnalysis{
			CriterionID: criterion.ID,
			Analysis:    payload.ChainOfThought.CriteriaAnalysis[criterion.ID],
		})
		scoring = append(scoring, models.CriterionScore{
			CriterionID: criterion.ID,
			Score:       payload.ChainOfThought.Scoring[criterion.ID],
		})
	}

	confidence := payload.PredictiveAnalysis.Confidence
	confidence = math.Max(0, math.Min(1, confidence))

	timestamp := e.now()
	hash, err := integrity.Stamp(submission.TaskID, submission.StudentName, score, RubricVersion, timestamp)
	if err != nil {
		return models.EvaluationResult{}, fmt.Errorf("integrity stamp could not be computed: %w", err)
	}

	return models.EvaluationResult{
		TaskID:      submission.TaskID,
		StudentName: submission.StudentName,
		Score:       score,
		IsPass:      score >= models.PassingScore,
		Feedback:    payload.Feedback,
		PlagiarismCheck: models.PlagiarismCheck{
			SimilarityScore: payload.Plagiarism.SimilarityScore,
			Sources:         payload.Plagiarism.Sources,
			IsPlagiarized:   payload.Plagiarism.IsPlagiarized,
		},
		ChainOfThought: models.ChainOfThought{
			TaskUnderstanding: payload.ChainOfThought.TaskUnderstanding,
			CriteriaAnalysis:  analysis,
			StrengthsWeaknesses: models.StrengthsWeaknesses{
				Strengths:  payload.ChainOfThought.Strengths,
				Weaknesses: payload.ChainOfThought.Weaknesses,
			},
			Scoring: scoring,
		},
		PredictiveAnalysis: models.PredictiveAnalysis{
			Confidence:      confidence,
			Recommendations: payload.PredictiveAnalysis.Recommendations,
			LearningPath:    payload.PredictiveAnalysis.LearningPath,
		},
		JordanianContextNotes: payload.ContextNotes,
		Hash:                  hash,
		Timestamp:             timestamp,
		Version:               RubricVersion,
	}, nil
}

func evaluatorSystemPrompt() string {
	return "You are a BTEC (Pearson AAQ 2025) vocational assessor for Jordanian secondary schools. " +
		"Grade the submitted task against the provided criteria and respond with a single JSON object containing " +
		"score (0-100), feedback (Arabic), plagiarism, chain_of_thought with per-criterion criteria_analysis and scoring " +
		"keyed by criterion id, predictive_analysis, and optional context_notes. Return JSON only."
}

func buildUserPrompt(submission models.TaskSubmission) string {
	builder := strings.Builder{}
	builder.WriteString("# Task ")
	builder.WriteString(fmt.Sprintf("%d", submission.TaskID))
	builder.WriteString("\n\n## Student\n")
	builder.WriteString(submission.StudentName)
	builder.WriteString("\n\n## Criteria\n")
	for _, criterion := range submission.Criteria {
		builder.WriteString(fmt.Sprintf("- %s (%s, weight %d%%): %s\n", criterion.ID, criterion.Level, criterion.Weight, criterion.Description))
	}
	builder.WriteString("\n## Submission\n")
	builder.WriteString(submission.TaskContent)
	if len(submission.EvidenceURLs) > 0 {
		builder.WriteString("\n\n## Evidence\n")
		for _, url := range submission.EvidenceURLs {
			builder.WriteString("- ")
			builder.WriteString(url)
			builder.WriteString("\n")
		}
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}
