package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/vidqueue-client/internal/config"
	"github.com/samvad-hq/vidqueue-client/internal/logger"
	"github.com/samvad-hq/vidqueue-client/internal/watcher"
	"github.com/samvad-hq/vidqueue-client/pkg/publishers"
	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

type countingPoller struct {
	calls atomic.Int32
	err   error
}

func (c *countingPoller) Poll(context.Context) (watcher.Result, error) {
	c.calls.Add(1)
	return watcher.Result{}, c.err
}

func TestRunPollsUntilCancelled(t *testing.T) {
	poller := &countingPoller{err: errors.New("backend down")}
	w := &Watcher{
		poller:   poller,
		fanout:   publishers.NewFanout(nil),
		interval: 10 * time.Millisecond,
		log:      logger.NopLogger{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if poller.calls.Load() < 2 {
		t.Fatalf("expected the loop to keep polling after errors, got %d polls", poller.calls.Load())
	}
}

func TestNewWatcherRequiresPublishers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    enabled: false
    http:
      url: https://example.com
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := &config.Config{PublishersFile: path, StorageType: "none", WatchInterval: time.Second}
	client := vidqueue.New(vidqueue.Options{BaseURL: "http://backend"})
	if _, err := NewWatcher(context.Background(), cfg, client, nil); err == nil {
		t.Fatalf("expected error when every publisher is disabled")
	}
}

func TestWatcherEndToEnd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/settings":
			_, _ = w.Write([]byte(`{"download_path":"./downloads","headless_mode":false,"auto_remove":true,"show_notification":true}`))
		case "/api/history":
			_, _ = w.Write([]byte(`[{"id":"d1","url":"http://x","status":"completed","filename":"x.mp4"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	var (
		mu     sync.Mutex
		hooked []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hooked = append(hooked, r.Method)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	dir := t.TempDir()
	pubPath := filepath.Join(dir, "publishers.yaml")
	raw := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: " + hook.URL + "\n"
	if err := os.WriteFile(pubPath, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := &config.Config{
		PublishersFile:     pubPath,
		StorageType:        "bbolt",
		BBoltPath:          filepath.Join(dir, "watcher.db"),
		WatchInterval:      time.Hour,
		WatchNotifyBacklog: true,
	}
	client := vidqueue.New(vidqueue.Options{BaseURL: backend.URL})

	w, err := NewWatcher(context.Background(), cfg, client, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(hooked)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatalf("webhook was not called")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hooked) != 1 || hooked[0] != http.MethodPost {
		t.Fatalf("unexpected webhook calls %v", hooked)
	}
}
