package ai

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mosab320010/-betc/internal/integrity"
	"github.com/mosab320010/-betc/internal/models"
)

// MockConfig configures the in-process mock evaluator.
type MockConfig struct {
	// Delay simulates the latency of the real grading service.
	Delay time.Duration
	// Rand supplies randomness; defaults to a time-seeded source.
	Rand *rand.Rand
	// Now supplies the result timestamp; defaults to time.Now.
	Now    func() time.Time
	Logger zerolog.Logger
}

// MockEvaluator synthesizes a plausible evaluation result after a simulated
// delay. It stands in for the external grading service during development
// and never fails except on context cancellation or a stamp failure.
type MockEvaluator struct {
	delay  time.Duration
	rand   *rand.Rand
	now    func() time.Time
	logger zerolog.Logger
}

// NewMockEvaluator builds a mock evaluator from the provided configuration.
func NewMockEvaluator(cfg MockConfig) *MockEvaluator {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Delay == 0 {
		cfg.Delay = 1500 * time.Millisecond
	}

	return &MockEvaluator{
		delay:  cfg.Delay,
		rand:   cfg.Rand,
		now:    cfg.Now,
		logger: cfg.Logger.With().Str("component", "mock_evaluator").Logger(),
	}
}

// Evaluate synthesizes a result for the submission after the simulated delay.
func (e *MockEvaluator) Evaluate(ctx context.Context, submission models.TaskSubmission) (models.EvaluationResult, error) {
	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.EvaluationResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	score := clampScore(60 + int(math.Round(e.rand.Float64()*35)))
	isPass := score >= models.PassingScore

	feedback := "نوصي بإعادة صياغة الأقسام الأساسية وإضافة أدلة أكثر قوة لدعم المطالبات الواردة في المهمة."
	if isPass {
		feedback = "أداء جيد مع فرص تحسين في التوثيق وربط الأدلة بالمعايير بشكل أقوى."
	}

	analysis := make([]models.CriterionAnalysis, 0, len(submission.Criteria))
	scoring := make([]models.CriterionScore, 0, len(submission.Criteria))
	for _, criterion := range submission.Criteria {
		analysis = append(analysis, models.CriterionAnalysis{
			CriterionID: criterion.ID,
			Analysis:    "تم تقييم تحقيق المعيار بناءً على الأدلة المقدمة.",
		})
		weighted := float64(score) * (e.rand.Float64()*0.5 + 0.75) * (float64(criterion.Weight) / 100)
		scoring = append(scoring, models.CriterionScore{
			CriterionID: criterion.ID,
			Score:       int(math.Round(weighted)),
		})
	}

	timestamp := e.now()
	hash, err := integrity.Stamp(submission.TaskID, submission.StudentName, score, RubricVersion, timestamp)
	if err != nil {
		return models.EvaluationResult{}, fmt.Errorf("integrity stamp could not be computed: %w", err)
	}

	result := models.EvaluationResult{
		TaskID:      submission.TaskID,
		StudentName: submission.StudentName,
		Score:       score,
		IsPass:      isPass,
		Feedback:    feedback,
		PlagiarismCheck: models.PlagiarismCheck{
			SimilarityScore: int(math.Round(e.rand.Float64() * 18)),
			Sources:         []string{"https://example.com/source-1"},
			IsPlagiarized:   false,
		},
		ChainOfThought: models.ChainOfThought{
			TaskUnderstanding: []string{
				"تحديد نواتج التعلم المطلوبة من دليل الوحدة.",
				"مواءمة محتوى المهمة المقدمة مع المعايير P1, M1, D1.",
			},
			CriteriaAnalysis: analysis,
			StrengthsWeaknesses: models.StrengthsWeaknesses{
				Strengths: []string{
					"تحليل منهجي للمشكلة.",
					"بنية واضحة ومنطقية للنص.",
				},
				Weaknesses: []string{
					"ضعف في الاستشهادات الأكاديمية.",
					"الأدلة المقدمة لا تغطي جميع جوانب المعيار D1.",
				},
			},
			Scoring: scoring,
		},
		PredictiveAnalysis: models.PredictiveAnalysis{
			Confidence: 0.82 + e.rand.Float64()*0.15,
			Recommendations: []string{
				"تعزيز المراجع الأكاديمية.",
				"تحسين جودة الأدلة المرئية وربطها بالمعايير.",
			},
			LearningPath: []string{
				"مراجعة دليل Pearson AAQ 2025.",
				"حضور ورشة عمل عن الكتابة الأكاديمية والتوثيق.",
			},
		},
		JordanianContextNotes: []string{
			"التقييم يتوافق مع متطلبات التقييم الداخلي المعتمدة.",
			"العمل المقدم ملائم لإرشادات المدارس الثانوية المهنية في الأردن.",
		},
		Hash:      hash,
		Timestamp: timestamp,
		Version:   RubricVersion,
	}

	e.logger.Debug().Uint("task_id", submission.TaskID).Int("score", score).Msg("mock evaluation produced")

	return result, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
