package watcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/vidqueue-client/internal/logger"
	"github.com/samvad-hq/vidqueue-client/pkg/publishers"
	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

// Options tunes a Service.
type Options struct {
	// Origin identifies the backend in published events.
	Origin string
	// NotifyBacklog publishes downloads that were already finished when the
	// first poll ran instead of silently recording them.
	NotifyBacklog bool
}

// Result summarizes one poll.
type Result struct {
	Finished   int
	New        int
	Published  int
	Suppressed int
}

// Service turns finished downloads reported by the backend into events.
// Poll is not safe for concurrent use.
type Service struct {
	source    Source
	publisher EventPublisher
	store     Deduper
	log       logger.Logger
	opts      Options
	primed    bool
}

// NewService wires a watcher. A nil logger discards output.
func NewService(source Source, publisher EventPublisher, store Deduper, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		source:    source,
		publisher: publisher,
		store:     store,
		log:       log,
		opts:      opts,
	}
}

// Poll reads settings and history once and announces downloads that reached a
// terminal status since they were last seen. Notifications are suppressed,
// but still recorded, while show_notification is off.
func (s *Service) Poll(ctx context.Context) (Result, error) {
	if s == nil || s.source == nil || s.store == nil {
		return Result{}, fmt.Errorf("watcher service is not initialized")
	}

	rawSettings, err := s.source.Settings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch settings: %w", err)
	}
	settings, err := vidqueue.Decode[vidqueue.Settings](rawSettings)
	if err != nil {
		return Result{}, fmt.Errorf("read settings: %w", err)
	}

	rawHistory, err := s.source.History(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch history: %w", err)
	}
	history, err := vidqueue.Decode[[]vidqueue.Download](rawHistory)
	if err != nil {
		return Result{}, fmt.Errorf("read history: %w", err)
	}

	finished := terminal(history)
	fresh := s.filterNew(finished)
	res := Result{Finished: len(finished), New: len(fresh)}

	notify := settings.ShowNotification && (s.primed || s.opts.NotifyBacklog)
	s.primed = true

	var errs []error
	for _, d := range fresh {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		if notify {
			delivered, err := s.announce(ctx, d)
			if err != nil && delivered == 0 {
				// Left unmarked so the next poll offers it again.
				errs = append(errs, fmt.Errorf("download %s: %w", d.ID, err))
				continue
			}
			res.Published++
		} else {
			res.Suppressed++
		}

		if err := s.store.MarkDownload(d.ID, d.Status); err != nil {
			errs = append(errs, fmt.Errorf("mark download %s: %w", d.ID, err))
		}
	}

	s.log.InfoObj("watcher poll completed", "watch_result", map[string]any{
		"finished":          res.Finished,
		"new":               res.New,
		"published":         res.Published,
		"suppressed":        res.Suppressed,
		"show_notification": settings.ShowNotification,
	})
	return res, errors.Join(errs...)
}

func (s *Service) announce(ctx context.Context, d vidqueue.Download) (int, error) {
	if s.publisher == nil {
		return 0, fmt.Errorf("no publisher configured")
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(s.opts.Origin, d))
	if err != nil && delivered > 0 {
		s.log.WarnObj("download event partially delivered", "publish_error", map[string]any{
			"download_id": d.ID,
			"delivered":   delivered,
			"error":       err.Error(),
		})
	}
	return delivered, err
}

// filterNew drops downloads already announced with the same status. Lookup
// failures keep the download so an outcome is never lost silently.
func (s *Service) filterNew(downloads []vidqueue.Download) []vidqueue.Download {
	out := make([]vidqueue.Download, 0, len(downloads))
	for _, d := range downloads {
		seen, err := s.store.SeenDownload(d.ID, d.Status)
		if err != nil {
			s.log.WarnObj("seen lookup failed", "store_error", map[string]any{
				"download_id": d.ID,
				"error":       err.Error(),
			})
		}
		if seen {
			continue
		}
		out = append(out, d)
	}
	return out
}

func terminal(downloads []vidqueue.Download) []vidqueue.Download {
	out := make([]vidqueue.Download, 0, len(downloads))
	for _, d := range downloads {
		if d.ID == "" || !d.Terminal() {
			continue
		}
		out = append(out, d)
	}
	return out
}
