package watcher

import (
	"context"

	"github.com/samvad-hq/vidqueue-client/pkg/publishers"
)

// Source is the part of the API client the watcher polls.
type Source interface {
	Settings(ctx context.Context) (any, error)
	History(ctx context.Context) (any, error)
}

// Deduper remembers which download outcomes were already announced.
type Deduper interface {
	SeenDownload(id, status string) (bool, error)
	MarkDownload(id, status string) error
}

// EventPublisher delivers events downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
