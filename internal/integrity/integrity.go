// Package integrity computes the tamper-evidence stamp attached to every
// evaluation result.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Digest returns the lowercase hex SHA-256 of the UTF-8 bytes of text.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// stampFields is the canonical hash input. Field order is fixed; changing it
// invalidates every previously issued stamp.
type stampFields struct {
	TaskID      uint   `json:"taskId"`
	StudentName string `json:"studentName"`
	Score       int    `json:"score"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"`
}

// StampInput serializes the five stamped fields into the canonical JSON form.
// Timestamps are normalised to UTC RFC3339Nano so the same instant always
// produces the same bytes.
func StampInput(taskID uint, studentName string, score int, version string, timestamp time.Time) (string, error) {
	payload, err := json.Marshal(stampFields{
		TaskID:      taskID,
		StudentName: studentName,
		Score:       score,
		Version:     version,
		Timestamp:   timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", fmt.Errorf("marshal stamp input: %w", err)
	}
	return string(payload), nil
}

// Stamp computes the integrity hash over the canonical serialization of the
// five stamped fields.
func Stamp(taskID uint, studentName string, score int, version string, timestamp time.Time) (string, error) {
	input, err := StampInput(taskID, studentName, score, version, timestamp)
	if err != nil {
		return "", err
	}
	return Digest(input), nil
}
