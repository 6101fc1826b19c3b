package ai

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mosab320010/-betc/internal/integrity"
	"github.com/mosab320010/-betc/internal/models"
)

func testMock(seed int64) *MockEvaluator {
	return NewMockEvaluator(MockConfig{
		Delay:  time.Nanosecond,
		Rand:   rand.New(rand.NewSource(seed)),
		Now:    func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
		Logger: zerolog.Nop(),
	})
}

func testSubmission() models.TaskSubmission {
	return models.TaskSubmission{
		TaskID:      1,
		StudentName: "Ahmad",
		TaskContent: "نص المهمة",
		Criteria: []models.Criterion{
			{ID: "P1", Description: "وصف المشكلة بشكل واضح", Level: models.LevelPass, Weight: 30},
			{ID: "M1", Description: "تحليل أسباب المشكلة", Level: models.LevelMerit, Weight: 30},
			{ID: "D1", Description: "تقديم حلول مبتكرة", Level: models.LevelDistinction, Weight: 40},
		},
	}
}

func TestMockEvaluateVerdictMatchesScore(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		result, err := testMock(seed).Evaluate(context.Background(), testSubmission())
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.Score, 0)
		require.LessOrEqual(t, result.Score, 100)
		require.Equal(t, result.Score >= models.PassingScore, result.IsPass)
	}
}

func TestMockEvaluateCriterionKeySets(t *testing.T) {
	submission := testSubmission()

	result, err := testMock(1).Evaluate(context.Background(), submission)
	require.NoError(t, err)

	require.Equal(t, submission.CriterionIDs(), result.ChainOfThought.AnalysisKeys())
	require.Equal(t, submission.CriterionIDs(), result.ChainOfThought.ScoringKeys())
	require.Equal(t, []string{"P1", "M1", "D1"}, result.ChainOfThought.ScoringKeys())
}

func TestMockEvaluateStampVerifies(t *testing.T) {
	result, err := testMock(7).Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)

	expected, err := integrity.Stamp(result.TaskID, result.StudentName, result.Score, result.Version, result.Timestamp)
	require.NoError(t, err)
	require.Equal(t, expected, result.Hash)
	require.Equal(t, RubricVersion, result.Version)
}

func TestMockEvaluateResultShape(t *testing.T) {
	result, err := testMock(3).Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)

	require.NotEmpty(t, result.Feedback)
	require.False(t, result.PlagiarismCheck.IsPlagiarized)
	require.GreaterOrEqual(t, result.PlagiarismCheck.SimilarityScore, 0)
	require.LessOrEqual(t, result.PlagiarismCheck.SimilarityScore, 18)
	require.NotEmpty(t, result.PlagiarismCheck.Sources)
	require.GreaterOrEqual(t, result.PredictiveAnalysis.Confidence, 0.82)
	require.LessOrEqual(t, result.PredictiveAnalysis.Confidence, 0.97)
	require.NotEmpty(t, result.PredictiveAnalysis.LearningPath)
	require.NotEmpty(t, result.JordanianContextNotes)
	require.NotEmpty(t, result.ChainOfThought.TaskUnderstanding)
	require.NotEmpty(t, result.ChainOfThought.StrengthsWeaknesses.Strengths)
	require.NotEmpty(t, result.ChainOfThought.StrengthsWeaknesses.Weaknesses)
}

func TestMockEvaluateHonoursCancellation(t *testing.T) {
	evaluator := NewMockEvaluator(MockConfig{Delay: time.Minute, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.Evaluate(ctx, testSubmission())
	require.ErrorIs(t, err, context.Canceled)
}
