package domain

import "strings"

// Status enumerates ticket lifecycle states.
type Status string

const (
	StatusReceived   Status = "Received"
	StatusVerifying  Status = "Verifying"
	StatusInProgress Status = "In Progress"
	StatusFixed      Status = "Fixed"
)

// OpenStatuses are the states preceding terminal resolution. Only tickets
// in one of these states participate in duplicate detection.
func OpenStatuses() []Status {
	return []Status{StatusReceived, StatusVerifying, StatusInProgress}
}

// IsOpen reports whether the status precedes terminal resolution.
func (s Status) IsOpen() bool {
	switch s {
	case StatusReceived, StatusVerifying, StatusInProgress:
		return true
	}
	return false
}

// Valid reports whether s is a recognized status value.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusVerifying, StatusInProgress, StatusFixed:
		return true
	}
	return false
}

// ParseStatus normalizes a raw status string at the system boundary.
// It folds case, spacing and underscore variants ("inprogress",
// "in_progress") and accepts "resolved" as a synonym for Fixed. The second
// return value is false for unrecognized input.
func ParseStatus(raw string) (Status, bool) {
	key := strings.ToLower(raw)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	switch key {
	case "received":
		return StatusReceived, true
	case "verifying":
		return StatusVerifying, true
	case "inprogress":
		return StatusInProgress, true
	case "fixed", "resolved":
		return StatusFixed, true
	}
	return "", false
}
