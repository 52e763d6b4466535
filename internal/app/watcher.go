package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/vidqueue-client/internal/config"
	"github.com/samvad-hq/vidqueue-client/internal/logger"
	"github.com/samvad-hq/vidqueue-client/internal/storage"
	"github.com/samvad-hq/vidqueue-client/internal/watcher"
	"github.com/samvad-hq/vidqueue-client/pkg/publishers"
	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

// Poller runs one watcher pass.
type Poller interface {
	Poll(ctx context.Context) (watcher.Result, error)
}

// Watcher is the notification runtime. It owns the poll loop, the publisher
// fan-out and the seen-download store.
type Watcher struct {
	poller   Poller
	fanout   *publishers.Fanout
	store    storage.Store
	interval time.Duration
	log      logger.Logger
}

// NewWatcher builds the runtime from config: API client, publishers file and store.
func NewWatcher(ctx context.Context, cfg *config.Config, client *vidqueue.Client, log logger.Logger) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("api client must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
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
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	svc := watcher.NewService(client, fanout, store, log, watcher.Options{
		Origin:        client.BaseURL(),
		NotifyBacklog: cfg.WatchNotifyBacklog,
	})

	return &Watcher{
		poller:   svc,
		fanout:   fanout,
		store:    store,
		interval: cfg.WatchInterval,
		log:      log,
	}, nil
}

// Run polls until the context is cancelled. Failed polls are logged and the
// loop carries on at the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.poller == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	if w.interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.interval.String(),
	})

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	start := time.Now()
	res, err := w.poller.Poll(ctx)
	if err != nil {
		w.log.ErrorObj("watcher poll failed", "error", err.Error())
		return
	}
	w.log.DebugObj("watcher poll finished", "poll_meta", map[string]any{
		"new":        res.New,
		"published":  res.Published,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

// close releases the publishers and the store, logging any errors encountered.
func (w *Watcher) close() {
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if w.store == nil {
		return
	}
	if err := w.store.Close(); err != nil {
		w.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
