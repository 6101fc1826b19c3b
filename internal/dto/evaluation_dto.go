package dto

import (
	"time"

	"github.com/mosab320010/-betc/internal/models"
	"github.com/mosab320010/-betc/internal/session"
)

// CriterionPayload describes one rubric criterion in an evaluation request.
type CriterionPayload struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description" validate:"required"`
	Level       string `json:"level" validate:"required,oneof=P M D"`
	Weight      int    `json:"weight" validate:"required,gt=0,lte=100"`
}

// EvaluateRequest is the payload submitted to start an evaluation.
type EvaluateRequest struct {
	TaskID       uint               `json:"task_id"`
	StudentName  string             `json:"student_name" validate:"required"`
	TaskContent  string             `json:"task_content" validate:"required"`
	EvidenceURLs []string           `json:"evidence_urls" validate:"omitempty,dive,url"`
	Criteria     []CriterionPayload `json:"criteria" validate:"required,min=1,dive"`
}

// Submission converts the request into the immutable domain submission.
func (r EvaluateRequest) Submission() models.TaskSubmission {
	criteria := make([]models.Criterion, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		criteria = append(criteria, models.Criterion{
			ID:          c.ID,
			Description: c.Description,
			Level:       models.Level(c.Level),
			Weight:      c.Weight,
		})
	}

	return models.TaskSubmission{
		TaskID:       r.TaskID,
		StudentName:  r.StudentName,
		TaskContent:  r.TaskContent,
		EvidenceURLs: append([]string(nil), r.EvidenceURLs...),
		Criteria:     criteria,
	}
}

// SessionResponse is the session snapshot returned to API clients.
type SessionResponse struct {
	State      string                   `json:"state"`
	IsLoading  bool                     `json:"is_loading"`
	Submission *models.TaskSubmission   `json:"submission,omitempty"`
	Result     *models.EvaluationResult `json:"result,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// NewSessionResponse converts a session snapshot into a DTO.
func NewSessionResponse(snapshot session.Snapshot) SessionResponse {
	return SessionResponse{
		State:      string(snapshot.State),
		IsLoading:  snapshot.IsLoading,
		Submission: snapshot.Submission,
		Result:     snapshot.Result,
		Error:      snapshot.Error,
	}
}

// ResultMeta summarizes a result for export headers and listings.
type ResultMeta struct {
	TaskID      uint      `json:"task_id"`
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	IsPass      bool      `json:"is_pass"`
	Hash        string    `json:"hash"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
}

// NewResultMeta converts a result into its summary form.
func NewResultMeta(result models.EvaluationResult) ResultMeta {
	return ResultMeta{
		TaskID:      result.TaskID,
		StudentName: result.StudentName,
		Score:       result.Score,
		IsPass:      result.IsPass,
		Hash:        result.Hash,
		Timestamp:   result.Timestamp,
		Version:     result.Version,
	}
}
