// Package session holds the single evaluation session visible to API
// consumers: the pending submission, the latest result, and the loading and
// error flags that drive the report surfaces.
package session

import (
	"errors"
	"sync"

	"github.com/mosab320010/-betc/internal/models"
)

// State enumerates the evaluation session lifecycle.
type State string

const (
	// StateIdle means no evaluation is pending or displayed.
	StateIdle State = "idle"
	// StateSubmitting means an evaluation is in flight.
	StateSubmitting State = "submitting"
	// StateSuccess means the latest evaluation produced a result.
	StateSuccess State = "success"
	// StateFailed means the latest evaluation ended in an error.
	StateFailed State = "failed"
)

// ErrEvaluationInFlight indicates a second evaluation was started while one
// is still submitting.
var ErrEvaluationInFlight = errors.New("an evaluation is already in flight")

// Snapshot is a read-only copy of the session handed to consumers. Consumers
// never retain or mutate the stored values directly.
type Snapshot struct {
	State      State
	Submission *models.TaskSubmission
	Result     *models.EvaluationResult
	Error      string
	IsLoading  bool
}

// Store is the single source of truth for one evaluation session. Each
// in-flight evaluation carries a generation token; completions whose
// generation no longer matches (the session was cleared or restarted
// meanwhile) are dropped instead of overwriting newer state.
type Store struct {
	mu         sync.Mutex
	state      State
	submission *models.TaskSubmission
	result     *models.EvaluationResult
	err        string
	generation uint64
}

// NewStore returns an idle session store.
func NewStore() *Store {
	return &Store{state: StateIdle}
}

// StartEvaluation records the submission and transitions to Submitting in one
// step, clearing the previous result and error, and returns the generation
// token the completion must present. It fails if an evaluation is already in
// flight, in which case the in-flight submission is left untouched.
func (s *Store) StartEvaluation(submission models.TaskSubmission) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return 0, ErrEvaluationInFlight
	}

	copied := submission
	s.generation++
	s.state = StateSubmitting
	s.submission = &copied
	s.result = nil
	s.err = ""
	return s.generation, nil
}

// SetResult stores a completed evaluation and transitions to Success. Stale
// completions are ignored and reported via the return value.
func (s *Store) SetResult(generation uint64, result models.EvaluationResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateSubmitting {
		return false
	}

	copied := result
	s.state = StateSuccess
	s.result = &copied
	s.err = ""
	return true
}

// SetError records an evaluation failure and transitions to Failed. Stale
// failures are ignored.
func (s *Store) SetError(generation uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateSubmitting {
		return false
	}

	s.state = StateFailed
	s.result = nil
	s.err = message
	return true
}

// RecordValidationError surfaces a synchronous validation failure. No
// evaluation was started, so an in-flight session is left untouched; a
// Success session moves to Failed because the error replaces the displayed
// outcome.
func (s *Store) RecordValidationError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return
	}
	if s.state == StateSuccess {
		// The displayed result belongs to the previous attempt; keep the
		// result/error exclusivity by dropping it.
		s.state = StateFailed
		s.result = nil
	}
	s.err = message
}

// Clear returns the session to Idle, dropping the submission, result, and
// error. Bumping the generation makes any still-pending completion stale.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = StateIdle
	s.submission = nil
	s.result = nil
	s.err = ""
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		State:     s.state,
		Error:     s.err,
		IsLoading: s.state == StateSubmitting,
	}
	if s.submission != nil {
		copied := *s.submission
		snapshot.Submission = &copied
	}
	if s.result != nil {
		copied := *s.result
		snapshot.Result = &copied
	}
	return snapshot
}

// Result returns the current result, if any.
func (s *Store) Result() (models.EvaluationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return models.EvaluationResult{}, false
	}
	return *s.result, true
}
