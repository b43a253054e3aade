package model

import "time"

// AssignmentStatus describes review lifecycle of a submitted task.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// Assignment links a user to a task they submitted a response for.
// Absence of a row means the task was never attempted or was declined.
type Assignment struct {
	UserID      int64
	TaskID      int64
	Response    string
	Status      AssignmentStatus
	SubmittedAt time.Time
}

// PendingSubmission is an assignment joined with its task and submitter,
// as presented to reviewing operators.
type PendingSubmission struct {
	UserID   int64
	Username string
	TaskID   int64
	Title    string
	Reward   int64
	Question string
	Response string
}
