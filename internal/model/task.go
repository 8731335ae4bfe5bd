package model

import "time"

// TaskType identifies the cadence or ownership of a task.
type TaskType string

const (
	TaskTypeDaily   TaskType = "daily"
	TaskTypeWeekly  TaskType = "weekly"
	TaskTypeMonthly TaskType = "monthly"
	TaskTypeCircle  TaskType = "circle"
	TaskTypeMentor  TaskType = "mentor"
)

// Task status constants.
const (
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusExpired    = "expired"
)

// Task is a gamified assignment the user can complete for points.
type Task struct {
	// ID is the backend identifier for this task.
	ID int64 `json:"id"`

	// Title is the human-readable summary.
	Title string `json:"title"`

	// Description is the full task text.
	Description string `json:"description,omitempty"`

	// Type is the task cadence (use TaskType* constants).
	Type TaskType `json:"task_type"`

	// Progress is how far the user has advanced toward Target.
	Progress int `json:"progress"`

	// Target is the completion threshold.
	Target int `json:"target"`

	// Percent is the server-reported completion ratio. Use the
	// Completion method instead of reading this directly; the raw
	// value may be absent or out of range.
	Percent float64 `json:"percent"`

	// Status is the lifecycle state (use TaskStatus* constants).
	Status string `json:"status"`

	// RewardScore is the points awarded on completion.
	RewardScore int `json:"reward_score"`

	// ExpiresAt is when this task stops accepting progress.
	ExpiresAt time.Time `json:"expires_at"`
}

// CircleTask extends Task with clan-wide aggregates.
type CircleTask struct {
	Task

	// CircleProgress is the clan's combined progress toward Target.
	CircleProgress int `json:"circle_progress"`

	// MembersContributing is how many clan members have contributed.
	MembersContributing int `json:"members_contributing"`

	// MyContribution is the viewer's share of CircleProgress.
	MyContribution int `json:"my_contribution"`

	// MyContributionPercent is the viewer's share as a ratio.
	MyContributionPercent float64 `json:"my_contribution_percent"`
}

// Completion returns the task's completion percentage clamped to
// [0,100]. When the server omits Percent it is derived from
// Progress/Target.
func (t Task) Completion() float64 {
	pct := t.Percent
	if pct == 0 && t.Target > 0 {
		pct = float64(t.Progress) / float64(t.Target) * 100
	}
	return ClampPercent(pct)
}

// ClampPercent bounds a percentage into [0,100] before it is used as a
// rendering width.
func ClampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// TaskCollection is the backend's full task response, pre-split by type.
type TaskCollection struct {
	Daily   []Task       `json:"daily"`
	Weekly  []Task       `json:"weekly"`
	Monthly []Task       `json:"monthly"`
	Circle  []CircleTask `json:"circle"`
}
