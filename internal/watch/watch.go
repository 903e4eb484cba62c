package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proteowatch-hq/pride-archive-watcher/internal/logger"
	"github.com/proteowatch-hq/pride-archive-watcher/internal/storage"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/publishers"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/watches"
)

// Service polls the archive for each configured watch and publishes an event
// for every project not announced before.
type Service struct {
	client   ProjectSearcher
	store    storage.Store
	fanout   EventPublisher
	enricher ProjectEnricher
}

// NewService wires a watch service. store and enricher may be nil; a nil
// store disables dedupe, a nil enricher disables landing-page metadata.
func NewService(client ProjectSearcher, store storage.Store, fanout EventPublisher, enricher ProjectEnricher) *Service {
	return &Service{
		client:   client,
		store:    store,
		fanout:   fanout,
		enricher: enricher,
	}
}

// Run executes one pass over all configured watches.
func (s *Service) Run(ctx context.Context, ws []watches.Watch) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("watch service is not initialized")
	}
	if len(ws) == 0 {
		return fmt.Errorf("no watches configured")
	}

	errs := make([]error, 0, len(ws))
	for _, w := range ws {
		if err := s.runWatch(ctx, w); err != nil {
			errs = append(errs, err)
			logger.ErrorObj("watch pass failed", "watch_error", map[string]any{
				"watch_id": w.ID,
				"error":    err.Error(),
			})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runWatch(ctx context.Context, w watches.Watch) error {
	page, err := s.client.QueryForProjects(ctx, w.Keywords, archive.Int(0), archive.Int(w.PageSize))
	if err != nil {
		return fmt.Errorf("query watch %s: %w", w.ID, err)
	}

	delay := w.RequestDelay()
	announced := 0
	var errs []error
	for _, summary := range page.List {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		accession := strings.TrimSpace(summary.Accession)
		if accession == "" {
			continue
		}

		seen, err := s.seenProject(accession)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %s: %w", accession, err))
			continue
		}
		if seen {
			continue
		}

		evt := publishers.NewEvent(w.ID, w.Name, summary)
		if w.Enrich && s.enricher != nil {
			s.enrich(ctx, accession, &evt)
			s.throttle(ctx, delay)
		}

		if _, err := s.fanout.Publish(ctx, evt); err != nil {
			// Leave the project unmarked so a later pass retries the announcement.
			errs = append(errs, fmt.Errorf("publish %s: %w", accession, err))
			continue
		}
		if err := s.markProject(accession); err != nil {
			errs = append(errs, fmt.Errorf("mark %s: %w", accession, err))
			continue
		}
		announced++
	}

	logger.InfoObj("watch pass completed", "watch_result", map[string]any{
		"watch_id":           w.ID,
		"projects_returned":  len(page.List),
		"projects_announced": announced,
	})
	return errors.Join(errs...)
}

func (s *Service) enrich(ctx context.Context, accession string, evt *publishers.Event) {
	description, err := s.enricher.Describe(ctx, accession)
	if err != nil {
		logger.WarnObj("project page enrichment failed", "enrich_error", map[string]any{
			"accession": accession,
			"error":     err.Error(),
		})
		return
	}
	evt.Description = description
}

func (s *Service) seenProject(accession string) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	return s.store.SeenProject(accession)
}

func (s *Service) markProject(accession string) error {
	if s.store == nil {
		return nil
	}
	return s.store.MarkProject(accession)
}

func (s *Service) throttle(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
