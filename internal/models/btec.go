package models

import "time"

// Level identifies the BTEC proficiency tier a criterion belongs to.
type Level string

const (
	// LevelPass marks a Pass-tier criterion.
	LevelPass Level = "P"
	// LevelMerit marks a Merit-tier criterion.
	LevelMerit Level = "M"
	// LevelDistinction marks a Distinction-tier criterion.
	LevelDistinction Level = "D"
)

// Criterion is a single gradable rubric item within a task submission.
type Criterion struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Level       Level  `json:"level"`
	Weight      int    `json:"weight"`
}

// TaskSubmission is the student work handed to the evaluation engine.
// It is constructed once per evaluation attempt and never mutated.
type TaskSubmission struct {
	TaskID       uint        `json:"task_id"`
	StudentName  string      `json:"student_name"`
	TaskContent  string      `json:"task_content"`
	EvidenceURLs []string    `json:"evidence_urls"`
	Criteria     []Criterion `json:"criteria"`
}

// CriterionIDs returns the submission's criterion identifiers in rubric order.
func (s TaskSubmission) CriterionIDs() []string {
	ids := make([]string, 0, len(s.Criteria))
	for _, c := range s.Criteria {
		ids = append(ids, c.ID)
	}
	return ids
}

// TotalWeight sums the criterion weights. A well-formed rubric sums to 100,
// but weights are informational and a mismatch does not reject a submission.
func (s TaskSubmission) TotalWeight() int {
	total := 0
	for _, c := range s.Criteria {
		total += c.Weight
	}
	return total
}

// CriterionAnalysis is one per-criterion explanatory entry. Entries are kept
// as an ordered slice rather than a map so that both renderers iterate them
// in the submission's rubric order.
type CriterionAnalysis struct {
	CriterionID string `json:"criterion_id"`
	Analysis    string `json:"analysis"`
}

// CriterionScore is one per-criterion numeric scoring entry.
type CriterionScore struct {
	CriterionID string `json:"criterion_id"`
	Score       int    `json:"score"`
}

// StrengthsWeaknesses groups the qualitative halves of the rationale.
type StrengthsWeaknesses struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// ChainOfThought is the structured rationale trail accompanying a score.
type ChainOfThought struct {
	TaskUnderstanding   []string            `json:"task_understanding"`
	CriteriaAnalysis    []CriterionAnalysis `json:"criteria_analysis"`
	StrengthsWeaknesses StrengthsWeaknesses `json:"strengths_weaknesses"`
	Scoring             []CriterionScore    `json:"scoring"`
}

// AnalysisKeys returns the criterion ids covered by CriteriaAnalysis in order.
func (c ChainOfThought) AnalysisKeys() []string {
	keys := make([]string, 0, len(c.CriteriaAnalysis))
	for _, entry := range c.CriteriaAnalysis {
		keys = append(keys, entry.CriterionID)
	}
	return keys
}

// ScoringKeys returns the criterion ids covered by Scoring in order.
func (c ChainOfThought) ScoringKeys() []string {
	keys := make([]string, 0, len(c.Scoring))
	for _, entry := range c.Scoring {
		keys = append(keys, entry.CriterionID)
	}
	return keys
}

// PlagiarismCheck reports originality screening for the submission.
type PlagiarismCheck struct {
	SimilarityScore int      `json:"similarity_score"`
	Sources         []string `json:"sources"`
	IsPlagiarized   bool     `json:"is_plagiarized"`
}

// PredictiveAnalysis carries the engine's confidence and follow-up guidance.
type PredictiveAnalysis struct {
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	LearningPath    []string `json:"learning_path"`
}

// PassingScore is the minimum score that earns a pass verdict.
const PassingScore = 50

// EvaluationResult is the immutable outcome of one evaluation attempt.
// Consumers treat it as a read-only snapshot; it is replaced wholesale on
// re-submission and cleared on reset.
type EvaluationResult struct {
	TaskID                uint               `json:"task_id"`
	StudentName           string             `json:"student_name"`
	Score                 int                `json:"score"`
	IsPass                bool               `json:"is_pass"`
	Feedback              string             `json:"feedback"`
	PlagiarismCheck       PlagiarismCheck    `json:"plagiarism_check"`
	ChainOfThought        ChainOfThought     `json:"chain_of_thought"`
	PredictiveAnalysis    PredictiveAnalysis `json:"predictive_analysis"`
	JordanianContextNotes []string           `json:"jordanian_context_notes"`
	Hash                  string             `json:"hash"`
	Timestamp             time.Time          `json:"timestamp"`
	Version               string             `json:"version"`
}
