package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/publishers"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/watches"
)

type stubSearcher struct {
	list  *archive.ProjectSummaryList
	err   error
	calls int
}

func (s *stubSearcher) QueryForProjects(_ context.Context, _ []string, page, show *int) (*archive.ProjectSummaryList, error) {
	s.calls++
	if page == nil || show == nil {
		return nil, errors.New("watch queries must pin page and show")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

type memoryStore struct {
	seen map[string]bool
}

func newMemoryStore() *memoryStore { return &memoryStore{seen: map[string]bool{}} }

func (m *memoryStore) Close() error { return nil }
func (m *memoryStore) SeenProject(accession string) (bool, error) {
	return m.seen[accession], nil
}
func (m *memoryStore) MarkProject(accession string) error {
	m.seen[accession] = true
	return nil
}

type spyPublisher struct {
	events []publishers.Event
	err    error
}

func (p *spyPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.events = append(p.events, evt)
	return 1, nil
}

type stubEnricher struct {
	description string
	err         error
	calls       int
}

func (e *stubEnricher) Describe(context.Context, string) (string, error) {
	e.calls++
	return e.description, e.err
}

func testWatch() watches.Watch {
	return watches.Watch{
		ID:             "oncology",
		Name:           "Oncology datasets",
		Keywords:       []string{"cancer", "kidney"},
		PageSize:       5,
		RequestDelayMs: 1,
	}
}

func TestServicePublishesOnlyNewProjects(t *testing.T) {
	searcher := &stubSearcher{list: &archive.ProjectSummaryList{List: []archive.ProjectSummary{
		{Accession: "PXD000001", Title: "One"},
		{Accession: "PXD000002", Title: "Two"},
	}}}
	store := newMemoryStore()
	store.seen["PXD000001"] = true
	sink := &spyPublisher{}

	svc := NewService(searcher, store, sink, nil)
	if err := svc.Run(context.Background(), []watches.Watch{testWatch()}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	evt := sink.events[0]
	if evt.Project.Accession != "PXD000002" {
		t.Fatalf("expected PXD000002 announced, got %s", evt.Project.Accession)
	}
	if evt.WatchID != "oncology" || evt.WatchName != "Oncology datasets" {
		t.Fatalf("event watch fields wrong: %#v", evt)
	}
	if !store.seen["PXD000002"] {
		t.Fatalf("announced project was not marked seen")
	}
}

func TestServiceLeavesProjectUnmarkedOnPublishFailure(t *testing.T) {
	searcher := &stubSearcher{list: &archive.ProjectSummaryList{List: []archive.ProjectSummary{
		{Accession: "PXD000003"},
	}}}
	store := newMemoryStore()
	sink := &spyPublisher{err: errors.New("broker down")}

	svc := NewService(searcher, store, sink, nil)
	err := svc.Run(context.Background(), []watches.Watch{testWatch()})
	if err == nil {
		t.Fatalf("expected joined publish error")
	}
	if store.seen["PXD000003"] {
		t.Fatalf("failed announcement must not be marked seen")
	}
}

func TestServiceAttachesEnrichedDescription(t *testing.T) {
	searcher := &stubSearcher{list: &archive.ProjectSummaryList{List: []archive.ProjectSummary{
		{Accession: "PXD000004"},
	}}}
	sink := &spyPublisher{}
	enricher := &stubEnricher{description: "Deep proteome of X"}

	w := testWatch()
	w.Enrich = true

	svc := NewService(searcher, newMemoryStore(), sink, enricher)
	if err := svc.Run(context.Background(), []watches.Watch{w}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if enricher.calls != 1 {
		t.Fatalf("expected 1 enrichment, got %d", enricher.calls)
	}
	if len(sink.events) != 1 || sink.events[0].Description != "Deep proteome of X" {
		t.Fatalf("event missing description: %#v", sink.events)
	}
}

func TestServiceToleratesEnrichmentFailure(t *testing.T) {
	searcher := &stubSearcher{list: &archive.ProjectSummaryList{List: []archive.ProjectSummary{
		{Accession: "PXD000005"},
	}}}
	sink := &spyPublisher{}
	enricher := &stubEnricher{err: errors.New("page gone")}

	w := testWatch()
	w.Enrich = true

	svc := NewService(searcher, newMemoryStore(), sink, enricher)
	if err := svc.Run(context.Background(), []watches.Watch{w}); err != nil {
		t.Fatalf("enrichment failure must not fail the pass: %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Description != "" {
		t.Fatalf("expected event without description, got %#v", sink.events)
	}
}

func TestServiceRequiresWatches(t *testing.T) {
	svc := NewService(&stubSearcher{list: &archive.ProjectSummaryList{}}, nil, &spyPublisher{}, nil)
	if err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty watch list")
	}
}
