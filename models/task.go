package models

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a task. The set is closed.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid Status in display order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusDone}

// ParseStatus resolves s to a member of the closed status set.
// Matching is exact, like an enum lookup by name.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// StatusNames returns the valid status values joined for error messages
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, st := range Statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// Task is a to-do item owned by a user, optionally nested under a parent task
type Task struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	UserID       int64     `json:"user_id" db:"user_id"`
	ParentID     *int64    `json:"parent_id,omitempty" db:"parent_id"`
	Status       Status    `json:"status" db:"status"`
	CreationTime time.Time `json:"creation_time" db:"creation_time"`
	ModifiedTime time.Time `json:"modified_time" db:"modified_time"`
}

// TaskDto is the wire shape of a task.
// Every field is optional so that an unknown task maps to an empty object.
type TaskDto struct {
	ID           *int64     `json:"id,omitempty"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	UserID       *int64     `json:"userId,omitempty"`
	ParentID     *int64     `json:"parentId,omitempty"`
	Status       string     `json:"status,omitempty"`
	CreationTime *time.Time `json:"creationTime,omitempty"`
	ModifiedTime *time.Time `json:"modifiedTime,omitempty"`
}

// TaskToDto maps a stored task to its transfer object.
func TaskToDto(t Task) TaskDto {
	id, userID := t.ID, t.UserID
	d := TaskDto{
		ID:          &id,
		Title:       t.Title,
		Description: t.Description,
		UserID:      &userID,
		Status:      string(t.Status),
	}
	if t.ParentID != nil {
		parentID := *t.ParentID
		d.ParentID = &parentID
	}
	if !t.CreationTime.IsZero() {
		created := t.CreationTime
		d.CreationTime = &created
	}
	if !t.ModifiedTime.IsZero() {
		modified := t.ModifiedTime
		d.ModifiedTime = &modified
	}
	return d
}

// TaskFromDto maps a transfer object to a task entity.
// The status string is copied as is; callers validate it first.
func TaskFromDto(d TaskDto) Task {
	t := Task{
		Title:       d.Title,
		Description: d.Description,
		Status:      Status(d.Status),
	}
	if d.ID != nil {
		t.ID = *d.ID
	}
	if d.UserID != nil {
		t.UserID = *d.UserID
	}
	if d.ParentID != nil {
		parentID := *d.ParentID
		t.ParentID = &parentID
	}
	if d.CreationTime != nil {
		t.CreationTime = *d.CreationTime
	}
	if d.ModifiedTime != nil {
		t.ModifiedTime = *d.ModifiedTime
	}
	return t
}
