package app

import (
	"context"
	"fmt"
	"time"

	"github.com/proteowatch-hq/pride-archive-watcher/internal/config"
	"github.com/proteowatch-hq/pride-archive-watcher/internal/logger"
	"github.com/proteowatch-hq/pride-archive-watcher/internal/storage"
	"github.com/proteowatch-hq/pride-archive-watcher/internal/watch"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/archive"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/httpclient"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/publishers"
	"github.com/proteowatch-hq/pride-archive-watcher/pkg/watches"
)

// Watcher represents the archive watcher runtime. It manages the poll loop,
// coordinating between the archive client, the watch service, and publishers.
// It also handles storage initialization and cleanup.
type Watcher struct {
	cfg          *config.Config
	watchReg     *watches.Registry
	fanout       *publishers.Fanout
	watchService *watch.Service
	pollInterval time.Duration
	store        storage.Store
}

// objLogger adapts the package-level logging helpers to the publishers
// logging surface.
type objLogger struct{}

func (objLogger) InfoObj(msg, key string, obj interface{})  { logger.InfoObj(msg, key, obj) }
func (objLogger) DebugObj(msg, key string, obj interface{}) { logger.DebugObj(msg, key, obj) }
func (objLogger) WarnObj(msg, key string, obj interface{})  { logger.WarnObj(msg, key, obj) }
func (objLogger) ErrorObj(msg, key string, obj interface{}) { logger.ErrorObj(msg, key, obj) }

// NewWatcher builds a watcher runtime from config files.
func NewWatcher(ctx context.Context, cfg *config.Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	watchReg, err := watches.LoadRegistry(cfg.WatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load watches registry: %w", err)
	}
	watchList := watchReg.All()
	watchIDs := make([]string, 0, len(watchList))
	for _, w := range watchList {
		watchIDs = append(watchIDs, w.ID)
	}
	logger.InfoObj("watches registry loaded", "watches_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubRegistry := publishers.DefaultRegistry()
	pubClients, err := publishers.BuildAll(ctx, pubRegistry, enabledPublishers, objLogger{})
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	logger.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		ProjectTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"project_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	httpClient := httpclient.NewRestyClient(cfg.HTTPTimeout)
	archiveClient := archive.New(httpClient,
		archive.WithBaseURL(cfg.ArchiveBaseURL),
		archive.WithQueryParam(cfg.ArchiveQueryParam),
	)
	enricher := watch.NewEnricher(httpClient, cfg.ProjectPageURL)
	watchService := watch.NewService(archiveClient, store, fanout, enricher)

	return &Watcher{
		cfg:          cfg,
		watchReg:     watchReg,
		fanout:       fanout,
		watchService: watchService,
		pollInterval: cfg.PollInterval,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.watchService == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.closeStore()
	watchList := w.watchReg.All()
	if len(watchList) == 0 {
		logger.WarnObj("no watches configured; watcher idle", "watches_file", w.cfg.WatchesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	logger.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"watches_count":    len(watchList),
		"publishers_count": w.fanout.Size(),
		"poll_interval":    w.pollInterval.String(),
	})

	if err := w.runOnce(ctx, watchList); err != nil {
		logger.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx, watchList); err != nil {
				logger.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single pass across all watches.
func (w *Watcher) runOnce(ctx context.Context, watchList []watches.Watch) error {
	start := time.Now()
	logger.InfoObj("poll started", "poll_meta", map[string]any{
		"watches_count": len(watchList),
		"started_at":    start.UTC(),
	})
	if err := w.watchService.Run(ctx, watchList); err != nil {
		return err
	}
	logger.InfoObj("poll completed", "poll_meta", map[string]any{
		"watches_count": len(watchList),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (w *Watcher) closeStore() {
	if w == nil || w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		logger.ErrorObj("storage close failed", "error", err)
	}
}
