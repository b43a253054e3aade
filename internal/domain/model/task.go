package model

// Task describes a unit of verifiable work users get rewarded for.
type Task struct {
	ID          int64
	Title       string
	Description string
	Reward      int64
	Question    string
}
