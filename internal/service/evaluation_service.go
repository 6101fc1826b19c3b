package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mosab320010/-betc/internal/dto"
	"github.com/mosab320010/-betc/internal/models"
	"github.com/mosab320010/-betc/internal/observability"
	"github.com/mosab320010/-betc/internal/pdf"
	"github.com/mosab320010/-betc/internal/report"
	"github.com/mosab320010/-betc/internal/session"
	"github.com/mosab320010/-betc/pkg/ai"
)

// ErrRequiredFields indicates the student name or task content was empty.
var ErrRequiredFields = errors.New("اسم الطالب ونص المهمة حقول مطلوبة.")

// ErrEvaluationInFlight mirrors the session error for handler mapping.
var ErrEvaluationInFlight = session.ErrEvaluationInFlight

// ErrNoResult indicates no evaluation result is available to render.
var ErrNoResult = errors.New("no evaluation result available")

// ErrEvaluationFailed wraps a failure of the evaluation engine.
var ErrEvaluationFailed = errors.New("evaluation failed")

// EvaluationService orchestrates the evaluation session: validation,
// engine calls, session transitions, and report rendering.
type EvaluationService interface {
	Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.SessionResponse, error)
	Current(ctx context.Context) dto.SessionResponse
	Report(ctx context.Context) ([]report.Block, error)
	Meta(ctx context.Context) (dto.ResultMeta, error)
	Export(ctx context.Context, w io.Writer) (string, error)
	Clear(ctx context.Context)
}

type evaluationService struct {
	store     *session.Store
	evaluator ai.Evaluator
	exporter  *pdf.Exporter
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	timeout   time.Duration
	provider  string
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewEvaluationService constructs the evaluation service. The timeout bounds
// each engine call; zero disables the bound.
func NewEvaluationService(store *session.Store, evaluator ai.Evaluator, exporter *pdf.Exporter, validate *validator.Validate, timeout time.Duration, provider string, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		store:     store,
		evaluator: evaluator,
		exporter:  exporter,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		timeout:   timeout,
		provider:  provider,
		tracer:    otel.Tracer("github.com/mosab320010/-betc/internal/service/evaluation"),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.SessionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.evaluate", trace.WithAttributes(
		attribute.Int64("task_id", int64(payload.TaskID)),
	))
	defer span.End()

	submission, err := s.prepareSubmission(payload)
	if err != nil {
		s.store.RecordValidationError(err.Error())
		observability.Evaluations().WithLabelValues("validation_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.NewSessionResponse(s.store.Snapshot()), err
	}

	if total := submission.TotalWeight(); total != 100 {
		s.logger.Warn().Int("total_weight", total).Uint("task_id", submission.TaskID).Msg("criteria weights do not sum to 100")
	}

	generation, err := s.store.StartEvaluation(submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_in_flight")
		return dto.NewSessionResponse(s.store.Snapshot()), err
	}

	evalCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.evaluator.Evaluate(evalCtx, submission)
	observability.EvaluationDuration().WithLabelValues(s.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		s.store.SetError(generation, err.Error())
		observability.Evaluations().WithLabelValues("failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_failed")
		s.logger.Error().Err(err).Uint("task_id", submission.TaskID).Msg("evaluation failed")
		return dto.NewSessionResponse(s.store.Snapshot()), fmt.Errorf("%w: %s", ErrEvaluationFailed, err)
	}

	if !s.store.SetResult(generation, result) {
		// The session was cleared while the engine was running. The caller
		// still receives the result, the session stays as the user left it.
		s.logger.Info().Uint("task_id", submission.TaskID).Msg("stale evaluation result dropped")
	}

	observability.Evaluations().WithLabelValues("success").Inc()
	s.logger.Info().Uint("task_id", submission.TaskID).Int("score", result.Score).Bool("is_pass", result.IsPass).Msg("evaluation completed")

	return dto.NewSessionResponse(s.store.Snapshot()), nil
}

// prepareSubmission validates and normalises the request into the immutable
// submission. Task content is stripped of any HTML before it reaches the
// engine.
func (s *evaluationService) prepareSubmission(payload dto.EvaluateRequest) (models.TaskSubmission, error) {
	payload.StudentName = strings.TrimSpace(payload.StudentName)
	payload.TaskContent = strings.TrimSpace(s.sanitizer.Sanitize(payload.TaskContent))

	if payload.StudentName == "" || payload.TaskContent == "" {
		return models.TaskSubmission{}, ErrRequiredFields
	}

	urls := make([]string, 0, len(payload.EvidenceURLs))
	for _, url := range payload.EvidenceURLs {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	payload.EvidenceURLs = urls

	if err := s.validator.Struct(payload); err != nil {
		return models.TaskSubmission{}, err
	}

	return payload.Submission(), nil
}

func (s *evaluationService) Current(_ context.Context) dto.SessionResponse {
	return dto.NewSessionResponse(s.store.Snapshot())
}

func (s *evaluationService) Report(_ context.Context) ([]report.Block, error) {
	result, ok := s.store.Result()
	if !ok {
		return nil, ErrNoResult
	}
	return report.Build(result), nil
}

func (s *evaluationService) Meta(_ context.Context) (dto.ResultMeta, error) {
	result, ok := s.store.Result()
	if !ok {
		return dto.ResultMeta{}, ErrNoResult
	}
	return dto.NewResultMeta(result), nil
}

func (s *evaluationService) Export(ctx context.Context, w io.Writer) (string, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.export")
	defer span.End()

	result, ok := s.store.Result()
	if !ok {
		observability.Exports().WithLabelValues("no_result").Inc()
		return "", ErrNoResult
	}

	if err := s.exporter.Export(ctx, result, w); err != nil {
		observability.Exports().WithLabelValues("failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "export_failed")
		return "", err
	}

	observability.Exports().WithLabelValues("success").Inc()
	return pdf.Filename(result), nil
}

func (s *evaluationService) Clear(_ context.Context) {
	s.store.Clear()
	s.logger.Debug().Msg("evaluation session cleared")
}
