package model

import "fmt"

// Task is a server-owned to-do entry. The client only ever displays
// snapshots of it and asks for creation or deletion by ID.
type Task struct {
	ID        int64  `json:"id"`
	Task      string `json:"task"`
	CreatedAt string `json:"created_at,omitempty"`
}

// HasTimestamp reports whether the server supplied a creation time.
func (t Task) HasTimestamp() bool { return t.CreatedAt != "" }

// Suffix is the parenthesised timestamp shown after the text, or "".
func (t Task) Suffix() string {
	if !t.HasTimestamp() {
		return ""
	}
	return fmt.Sprintf("(%s)", t.CreatedAt)
}

// TaskCollection keeps the order the server returned.
type TaskCollection []Task
