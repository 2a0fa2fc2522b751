// Package models defines the domain types for Vigil.
package models

import "time"

// Activity sources.
const (
	SourceHook  = "hook"
	SourcePoll  = "poll"
	SourceWatch = "watch"
)

// Record is the last-activity record: the most recently active notebook
// and when that activity was observed. The tracker holds exactly one.
type Record struct {
	Path       string    `json:"path"`
	ObservedAt time.Time `json:"observed_at"`
}

// Event is a single observed activity occurrence as written to the journal
// and broadcast over SSE. RecordedAt is when Vigil accepted the event, which
// may trail ObservedAt (e.g. hook deliveries carrying their own stamp).
type Event struct {
	Path       string    `json:"path"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
	RecordedAt time.Time `json:"recorded_at"`
}
