package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosab320010/-betc/internal/models"
)

func testSubmission() models.TaskSubmission {
	return models.TaskSubmission{
		TaskID:      1,
		StudentName: "Ahmad",
		TaskContent: "content",
		Criteria: []models.Criterion{
			{ID: "P1", Description: "desc", Level: models.LevelPass, Weight: 100},
		},
	}
}

func testResult() models.EvaluationResult {
	return models.EvaluationResult{TaskID: 1, StudentName: "Ahmad", Score: 80, IsPass: true, Hash: "abc"}
}

func TestStoreStartsIdle(t *testing.T) {
	store := NewStore()

	snapshot := store.Snapshot()
	require.Equal(t, StateIdle, snapshot.State)
	require.False(t, snapshot.IsLoading)
	require.Nil(t, snapshot.Submission)
	require.Nil(t, snapshot.Result)
	require.Empty(t, snapshot.Error)
}

func TestStartEvaluationClearsPreviousOutcome(t *testing.T) {
	store := NewStore()

	gen, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.True(t, store.SetResult(gen, testResult()))

	gen2, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Equal(t, StateSubmitting, snapshot.State)
	require.True(t, snapshot.IsLoading)
	require.Nil(t, snapshot.Result)
	require.Empty(t, snapshot.Error)

	require.True(t, store.SetError(gen2, "boom"))
	gen3, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.Empty(t, store.Snapshot().Error)
	require.True(t, store.SetResult(gen3, testResult()))
}

func TestStoreRejectsConcurrentEvaluation(t *testing.T) {
	store := NewStore()

	_, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)

	_, err = store.StartEvaluation(testSubmission())
	require.ErrorIs(t, err, ErrEvaluationInFlight)
}

func TestRejectedStartKeepsInFlightSubmission(t *testing.T) {
	store := NewStore()

	_, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)

	second := testSubmission()
	second.TaskID = 2
	second.StudentName = "Sara"

	_, err = store.StartEvaluation(second)
	require.ErrorIs(t, err, ErrEvaluationInFlight)

	snapshot := store.Snapshot()
	require.NotNil(t, snapshot.Submission)
	require.Equal(t, uint(1), snapshot.Submission.TaskID)
	require.Equal(t, "Ahmad", snapshot.Submission.StudentName)
}

func TestResultAndErrorAreExclusive(t *testing.T) {
	store := NewStore()

	gen, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.True(t, store.SetResult(gen, testResult()))

	snapshot := store.Snapshot()
	require.Equal(t, StateSuccess, snapshot.State)
	require.NotNil(t, snapshot.Result)
	require.Empty(t, snapshot.Error)

	gen, err = store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.True(t, store.SetError(gen, "boom"))

	snapshot = store.Snapshot()
	require.Equal(t, StateFailed, snapshot.State)
	require.Nil(t, snapshot.Result)
	require.Equal(t, "boom", snapshot.Error)
}

func TestStaleCompletionIsIgnored(t *testing.T) {
	store := NewStore()

	gen, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)

	store.Clear()

	require.False(t, store.SetResult(gen, testResult()))
	require.False(t, store.SetError(gen, "boom"))

	snapshot := store.Snapshot()
	require.Equal(t, StateIdle, snapshot.State)
	require.Nil(t, snapshot.Result)
	require.Empty(t, snapshot.Error)
}

func TestClearFromAnyState(t *testing.T) {
	store := NewStore()

	gen, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.True(t, store.SetResult(gen, testResult()))

	store.Clear()

	snapshot := store.Snapshot()
	require.Equal(t, StateIdle, snapshot.State)
	require.Nil(t, snapshot.Submission)
	require.Nil(t, snapshot.Result)
	require.Empty(t, snapshot.Error)
	require.False(t, snapshot.IsLoading)
}

func TestRecordValidationError(t *testing.T) {
	store := NewStore()

	store.RecordValidationError("required fields missing")

	snapshot := store.Snapshot()
	require.Equal(t, StateIdle, snapshot.State)
	require.Equal(t, "required fields missing", snapshot.Error)
	require.Nil(t, snapshot.Result)
}

func TestRecordValidationErrorDropsDisplayedResult(t *testing.T) {
	store := NewStore()

	gen, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)
	require.True(t, store.SetResult(gen, testResult()))

	store.RecordValidationError("bad input")

	snapshot := store.Snapshot()
	require.Equal(t, StateFailed, snapshot.State)
	require.Nil(t, snapshot.Result)
	require.Equal(t, "bad input", snapshot.Error)
}

func TestStartEvaluationRecordsSubmissionAndClearsError(t *testing.T) {
	store := NewStore()

	store.RecordValidationError("bad input")
	_, err := store.StartEvaluation(testSubmission())
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Empty(t, snapshot.Error)
	require.NotNil(t, snapshot.Submission)
	require.Equal(t, "Ahmad", snapshot.Submission.StudentName)
}
