package watch

import (
	"context"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/publishers"
)

// ProjectSearcher is the subset of the archive client the watch service uses.
type ProjectSearcher interface {
	QueryForProjects(ctx context.Context, keywords []string, page, show *int) (*archive.ProjectSummaryList, error)
}

// ProjectEnricher supplies a human-readable description scraped from the
// project landing page.
type ProjectEnricher interface {
	Describe(ctx context.Context, accession string) (string, error)
}

// EventPublisher dispatches project events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
