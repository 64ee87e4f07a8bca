package models

import "time"

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is one entry in an owner's ordered list. Position is the source of
// truth for default display order within one owner's set.
type Task struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	AssignedTo       *int64       `json:"assigned_to,omitempty"`
	AssignedUsername *string      `json:"assigned_username,omitempty"`
	Text             string       `json:"text"`
	Description      string       `json:"description,omitempty"`
	Category         string       `json:"category,omitempty"`
	Priority         TaskPriority `json:"priority"`
	DueDate          *time.Time   `json:"due_date,omitempty"`
	Remind           bool         `json:"remind"`
	Completed        bool         `json:"completed"`
	Position         int          `json:"position"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Overdue reports whether the task should be flagged as late. Completed
// tasks are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// VisibleTo reports whether a user may read the task: the owner always,
// the assignee for collaboration. Deletion stays owner-only.
func (t *Task) VisibleTo(userID int64) bool {
	if t.UserID == userID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

type TaskStatusFilter string

const (
	FilterAll       TaskStatusFilter = "all"
	FilterActive    TaskStatusFilter = "active"
	FilterCompleted TaskStatusFilter = "completed"
)

func (f TaskStatusFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

type TaskSort string

const (
	SortPosition TaskSort = "position"
	SortDue      TaskSort = "due"
	SortCreated  TaskSort = "created"
)

func (s TaskSort) Valid() bool {
	switch s {
	case SortPosition, SortDue, SortCreated:
		return true
	}
	return false
}

// TaskListOptions is the (filter, sort, search) triple applied to one
// owner's visible set. Filter and search narrow, sort only presents;
// none of them touch stored positions.
type TaskListOptions struct {
	Filter TaskStatusFilter
	Sort   TaskSort
	Search string
}

func DefaultListOptions() TaskListOptions {
	return TaskListOptions{Filter: FilterAll, Sort: SortPosition}
}
