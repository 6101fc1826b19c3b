package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosab320010/-betc/internal/models"
)

func testResult() models.EvaluationResult {
	return models.EvaluationResult{
		TaskID:      1,
		StudentName: "Ahmad",
		Score:       82,
		IsPass:      true,
		Feedback:    "أداء جيد",
		PlagiarismCheck: models.PlagiarismCheck{
			SimilarityScore: 9,
			Sources:         []string{"https://example.com/source-1"},
			IsPlagiarized:   false,
		},
		ChainOfThought: models.ChainOfThought{
			TaskUnderstanding: []string{"فهم المهمة"},
			CriteriaAnalysis: []models.CriterionAnalysis{
				{CriterionID: "P1", Analysis: "تحليل"},
				{CriterionID: "M1", Analysis: "تحليل"},
			},
			StrengthsWeaknesses: models.StrengthsWeaknesses{
				Strengths:  []string{"قوة"},
				Weaknesses: []string{"ضعف"},
			},
			Scoring: []models.CriterionScore{
				{CriterionID: "P1", Score: 25},
				{CriterionID: "M1", Score: 27},
			},
		},
		PredictiveAnalysis: models.PredictiveAnalysis{
			Confidence:      0.856,
			Recommendations: []string{"توصية"},
			LearningPath:    []string{"خطوة أولى", "خطوة ثانية"},
		},
		JordanianContextNotes: []string{"ملاحظة"},
		Hash:                  "deadbeef",
		Timestamp:             time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Version:               "AAQ-2025",
	}
}

func TestBuildBlockOrder(t *testing.T) {
	blocks := Build(testResult())

	require.Len(t, blocks, 5)
	require.Equal(t, KindScore, blocks[0].Kind)
	require.Equal(t, KindPlagiarism, blocks[1].Kind)
	require.Equal(t, KindChainOfThought, blocks[2].Kind)
	require.Equal(t, KindPredictive, blocks[3].Kind)
	require.Equal(t, KindContextNotes, blocks[4].Kind)
}

func TestBuildOmitsEmptyContextNotes(t *testing.T) {
	result := testResult()
	result.JordanianContextNotes = nil

	blocks := Build(result)

	require.Len(t, blocks, 4)
	for _, block := range blocks {
		require.NotEqual(t, KindContextNotes, block.Kind)
	}
}

func TestScoreBlock(t *testing.T) {
	blocks := Build(testResult())

	score := blocks[0].Score
	require.NotNil(t, score)
	require.Equal(t, 82, score.Score)
	require.Equal(t, 100, score.MaxScore)
	require.InDelta(t, 0.82, score.BarFraction, 1e-9)
	require.True(t, score.IsPass)
	require.Equal(t, "deadbeef", score.Hash)
	require.Equal(t, "AAQ-2025", score.Version)
}

func TestBarFractionClamps(t *testing.T) {
	require.Equal(t, 0.0, barFraction(-5))
	require.Equal(t, 1.0, barFraction(140))
	require.Equal(t, 0.5, barFraction(50))
}

func TestPlagiarismBlockSourceLinks(t *testing.T) {
	blocks := Build(testResult())

	plagiarism := blocks[1].Plagiarism
	require.NotNil(t, plagiarism)
	require.Equal(t, 9, plagiarism.SimilarityScore)
	require.False(t, plagiarism.IsPlagiarized)
	require.Len(t, plagiarism.Sources, 1)
	require.Equal(t, "https://example.com/source-1", plagiarism.Sources[0].URL)
	require.True(t, plagiarism.Sources[0].NewTab)
	require.Equal(t, "ltr", plagiarism.Sources[0].TextDir)
}

func TestChainOfThoughtBlockPreservesOrder(t *testing.T) {
	blocks := Build(testResult())

	cot := blocks[2].ChainOfThought
	require.NotNil(t, cot)
	require.Equal(t, "P1", cot.CriteriaAnalysis[0].CriterionID)
	require.Equal(t, "M1", cot.CriteriaAnalysis[1].CriterionID)
	require.Equal(t, "P1", cot.Scoring[0].CriterionID)
	require.Equal(t, "M1", cot.Scoring[1].CriterionID)
}

func TestPredictiveBlock(t *testing.T) {
	blocks := Build(testResult())

	predictive := blocks[3].Predictive
	require.NotNil(t, predictive)
	require.Equal(t, 86, predictive.ConfidencePercent)
	require.Len(t, predictive.LearningPath, 2)
	require.Equal(t, 1, predictive.LearningPath[0].Position)
	require.Equal(t, 2, predictive.LearningPath[1].Position)
	require.Equal(t, "خطوة أولى", predictive.LearningPath[0].Text)
}
