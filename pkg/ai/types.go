package ai

import (
	"context"

	"github.com/mosab320010/-betc/internal/models"
)

// RubricVersion tags every result with the rubric edition in effect.
const RubricVersion = "AAQ-2025"

// Evaluator describes an engine capable of grading a BTEC task submission.
// Implementations return an atomically constructed result carrying the
// integrity stamp; a result whose stamp could not be computed is never
// returned.
type Evaluator interface {
	Evaluate(ctx context.Context, submission models.TaskSubmission) (models.EvaluationResult, error)
}
