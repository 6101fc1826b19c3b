// Package report maps an evaluation result into the ordered presentation
// blocks the client renders. Every mapping is pure: blocks hold copies of
// the slices they display and never reach back into the stored result.
package report

import (
	"math"

	"github.com/mosab320010/-betc/internal/models"
)

// BlockKind discriminates the block union.
type BlockKind string

const (
	// KindScore is the score and verdict block.
	KindScore BlockKind = "score"
	// KindPlagiarism is the plagiarism screening block.
	KindPlagiarism BlockKind = "plagiarism"
	// KindChainOfThought is the structured rationale block.
	KindChainOfThought BlockKind = "chain_of_thought"
	// KindPredictive is the predictive analysis block.
	KindPredictive BlockKind = "predictive_analysis"
	// KindContextNotes is the Jordanian context notes block.
	KindContextNotes BlockKind = "context_notes"
)

// ScoreBlock renders the overall score, verdict, and feedback.
type ScoreBlock struct {
	Score       int     `json:"score"`
	MaxScore    int     `json:"max_score"`
	BarFraction float64 `json:"bar_fraction"`
	IsPass      bool    `json:"is_pass"`
	Feedback    string  `json:"feedback"`
	Hash        string  `json:"hash"`
	Timestamp   string  `json:"timestamp"`
	Version     string  `json:"version"`
}

// SourceLink is a clickable plagiarism source, opened in a new context.
type SourceLink struct {
	URL     string `json:"url"`
	NewTab  bool   `json:"new_tab"`
	TextDir string `json:"text_dir"`
}

// PlagiarismBlock renders the similarity score and flagged sources.
type PlagiarismBlock struct {
	SimilarityScore int          `json:"similarity_score"`
	IsPlagiarized   bool         `json:"is_plagiarized"`
	Sources         []SourceLink `json:"sources,omitempty"`
}

// ChainOfThoughtBlock renders the four rationale subsections in fixed order.
type ChainOfThoughtBlock struct {
	TaskUnderstanding []string                   `json:"task_understanding"`
	CriteriaAnalysis  []models.CriterionAnalysis `json:"criteria_analysis"`
	Strengths         []string                   `json:"strengths"`
	Weaknesses        []string                   `json:"weaknesses"`
	Scoring           []models.CriterionScore    `json:"scoring"`
}

// LearningStep is one numbered entry of the suggested learning path.
type LearningStep struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// PredictiveBlock renders confidence, recommendations, and the learning path.
type PredictiveBlock struct {
	ConfidencePercent int            `json:"confidence_percent"`
	Recommendations   []string       `json:"recommendations"`
	LearningPath      []LearningStep `json:"learning_path"`
}

// ContextNotesBlock renders the Jordanian context notes. It is built only
// when the notes list is non-empty; an empty list omits the block entirely.
type ContextNotesBlock struct {
	Notes []string `json:"notes"`
}

// Block is the tagged union handed to renderers. Exactly one payload field
// matching Kind is set.
type Block struct {
	Kind           BlockKind            `json:"kind"`
	Score          *ScoreBlock          `json:"score,omitempty"`
	Plagiarism     *PlagiarismBlock     `json:"plagiarism,omitempty"`
	ChainOfThought *ChainOfThoughtBlock `json:"chain_of_thought,omitempty"`
	Predictive     *PredictiveBlock     `json:"predictive,omitempty"`
	ContextNotes   *ContextNotesBlock   `json:"context_notes,omitempty"`
}

// Build maps the result into its presentation blocks in display order.
func Build(result models.EvaluationResult) []Block {
	blocks := []Block{
		{Kind: KindScore, Score: buildScore(result)},
		{Kind: KindPlagiarism, Plagiarism: buildPlagiarism(result.PlagiarismCheck)},
		{Kind: KindChainOfThought, ChainOfThought: buildChainOfThought(result.ChainOfThought)},
		{Kind: KindPredictive, Predictive: buildPredictive(result.PredictiveAnalysis)},
	}

	if len(result.JordanianContextNotes) > 0 {
		blocks = append(blocks, Block{
			Kind:         KindContextNotes,
			ContextNotes: &ContextNotesBlock{Notes: append([]string(nil), result.JordanianContextNotes...)},
		})
	}

	return blocks
}

func buildScore(result models.EvaluationResult) *ScoreBlock {
	return &ScoreBlock{
		Score:       result.Score,
		MaxScore:    100,
		BarFraction: barFraction(result.Score),
		IsPass:      result.IsPass,
		Feedback:    result.Feedback,
		Hash:        result.Hash,
		Timestamp:   result.Timestamp.Format("2006-01-02 15:04:05"),
		Version:     result.Version,
	}
}

func buildPlagiarism(check models.PlagiarismCheck) *PlagiarismBlock {
	block := &PlagiarismBlock{
		SimilarityScore: check.SimilarityScore,
		IsPlagiarized:   check.IsPlagiarized,
	}
	for _, source := range check.Sources {
		block.Sources = append(block.Sources, SourceLink{URL: source, NewTab: true, TextDir: "ltr"})
	}
	return block
}

func buildChainOfThought(cot models.ChainOfThought) *ChainOfThoughtBlock {
	return &ChainOfThoughtBlock{
		TaskUnderstanding: append([]string(nil), cot.TaskUnderstanding...),
		CriteriaAnalysis:  append([]models.CriterionAnalysis(nil), cot.CriteriaAnalysis...),
		Strengths:         append([]string(nil), cot.StrengthsWeaknesses.Strengths...),
		Weaknesses:        append([]string(nil), cot.StrengthsWeaknesses.Weaknesses...),
		Scoring:           append([]models.CriterionScore(nil), cot.Scoring...),
	}
}

func buildPredictive(analysis models.PredictiveAnalysis) *PredictiveBlock {
	steps := make([]LearningStep, 0, len(analysis.LearningPath))
	for i, step := range analysis.LearningPath {
		steps = append(steps, LearningStep{Position: i + 1, Text: step})
	}

	return &PredictiveBlock{
		ConfidencePercent: int(math.Round(analysis.Confidence * 100)),
		Recommendations:   append([]string(nil), analysis.Recommendations...),
		LearningPath:      steps,
	}
}

// barFraction clamps the score to [0,100] before computing the fill ratio.
func barFraction(score int) float64 {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return float64(score) / 100
}
