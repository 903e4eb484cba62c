package publishers

import (
	"time"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
)

// Event represents one newly observed project, published downstream.
type Event struct {
	WatchID     string                 `json:"watch_id"`
	WatchName   string                 `json:"watch_name"`
	Project     archive.ProjectSummary `json:"project"`
	Description string                 `json:"description,omitempty"`
	ObservedAt  time.Time              `json:"observed_at"`
}

// NewEvent constructs an Event for the given watch + project.
func NewEvent(watchID, watchName string, project archive.ProjectSummary) Event {
	return Event{
		WatchID:    watchID,
		WatchName:  watchName,
		Project:    project,
		ObservedAt: time.Now().UTC(),
	}
}
