package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/samvad-hq/vidqueue-client/internal/app"
	"github.com/samvad-hq/vidqueue-client/internal/logger"
	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

type queueCommand struct {
	Add    queueAddCmd    `command:"add" description:"queue one or more URLs"`
	List   queueListCmd   `command:"list" description:"list queued downloads"`
	Remove queueRemoveCmd `command:"remove" description:"remove a queued download"`
	Retry  queueRetryCmd  `command:"retry" description:"retry a failed download"`
}

type queueAddCmd struct {
	Args struct {
		URLs []string `positional-arg-name:"url" required:"1"`
	} `positional-args:"yes"`
}

func (c *queueAddCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.AddToQueue(ctx, c.Args.URLs)
	})
}

type queueListCmd struct{}

func (queueListCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.Queue(ctx)
	})
}

type queueRemoveCmd struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *queueRemoveCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.RemoveFromQueue(ctx, c.Args.ID)
	})
}

type queueRetryCmd struct {
	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`
}

func (c *queueRetryCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.RetryDownload(ctx, c.Args.ID)
	})
}

type historyCommand struct {
	List  historyListCmd  `command:"list" description:"list finished downloads"`
	Clear historyClearCmd `command:"clear" description:"delete all history records"`
}

type historyListCmd struct {
	Limit int `short:"n" long:"limit" description:"maximum number of records"`
}

func (c *historyListCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.HistoryWithLimit(ctx, c.Limit)
	})
}

type historyClearCmd struct{}

func (historyClearCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.ClearHistory(ctx)
	})
}

type settingsCommand struct {
	Get settingsGetCmd `command:"get" description:"show current settings"`
	Set settingsSetCmd `command:"set" description:"update selected settings"`
}

type settingsGetCmd struct{}

func (settingsGetCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.Settings(ctx)
	})
}

type settingsSetCmd struct {
	DownloadPath     string `long:"download-path" description:"directory for finished files"`
	HeadlessMode     string `long:"headless-mode" choice:"true" choice:"false" description:"run the browser headless"`
	AutoRemove       string `long:"auto-remove" choice:"true" choice:"false" description:"drop finished items from the queue"`
	ShowNotification string `long:"show-notification" choice:"true" choice:"false" description:"notify on finished downloads"`
}

func (c *settingsSetCmd) Execute([]string) error {
	update, err := c.update()
	if err != nil {
		return err
	}
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.UpdateSettings(ctx, update)
	})
}

func (c *settingsSetCmd) update() (vidqueue.SettingsUpdate, error) {
	var (
		update vidqueue.SettingsUpdate
		err    error
	)
	if c.DownloadPath != "" {
		path := c.DownloadPath
		update.DownloadPath = &path
	}
	if update.HeadlessMode, err = optionalBool("headless-mode", c.HeadlessMode); err != nil {
		return update, err
	}
	if update.AutoRemove, err = optionalBool("auto-remove", c.AutoRemove); err != nil {
		return update, err
	}
	if update.ShowNotification, err = optionalBool("show-notification", c.ShowNotification); err != nil {
		return update, err
	}
	if update == (vidqueue.SettingsUpdate{}) {
		return update, fmt.Errorf("settings set: nothing to update")
	}
	return update, nil
}

func optionalBool(name, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return &v, nil
}

type downloadCommand struct {
	Start  downloadStartCmd  `command:"start" description:"start processing the queue"`
	Stop   downloadStopCmd   `command:"stop" description:"stop processing the queue"`
	Status downloadStatusCmd `command:"status" description:"show worker status"`
}

type downloadStartCmd struct{}

func (downloadStartCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.StartDownload(ctx)
	})
}

type downloadStopCmd struct{}

func (downloadStopCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.StopDownload(ctx)
	})
}

type downloadStatusCmd struct{}

func (downloadStatusCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.DownloadStatus(ctx)
	})
}

type videosCommand struct {
	List   videosListCmd   `command:"list" description:"list downloaded videos"`
	URL    videosURLCmd    `command:"url" description:"print the streaming URL of a video"`
	Rename videosRenameCmd `command:"rename" description:"rename a video"`
	Delete videosDeleteCmd `command:"delete" description:"delete a video"`
}

type videosListCmd struct{}

func (videosListCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.Videos(ctx)
	})
}

type videosURLCmd struct {
	Args struct {
		Filename string `positional-arg-name:"filename" required:"yes"`
	} `positional-args:"yes"`
}

func (c *videosURLCmd) Execute([]string) error {
	sess, err := newSession(false)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, sess.api.VideoURL(c.Args.Filename))
	return err
}

type videosRenameCmd struct {
	Args struct {
		Filename string `positional-arg-name:"filename" required:"yes"`
		NewName  string `positional-arg-name:"new-name" required:"yes"`
	} `positional-args:"yes"`
}

func (c *videosRenameCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.RenameVideo(ctx, c.Args.Filename, c.Args.NewName)
	})
}

type videosDeleteCmd struct {
	Args struct {
		Filename string `positional-arg-name:"filename" required:"yes"`
	} `positional-args:"yes"`
}

func (c *videosDeleteCmd) Execute([]string) error {
	return invoke(func(ctx context.Context, api *vidqueue.Client) (any, error) {
		return api.DeleteVideo(ctx, c.Args.Filename)
	})
}

type watchCommand struct {
	Backlog bool `long:"backlog" description:"also announce downloads finished before startup"`
}

func (c *watchCommand) Execute([]string) error {
	sess, err := newSession(true)
	if err != nil {
		return err
	}
	defer logger.Close()
	if c.Backlog {
		sess.cfg.WatchNotifyBacklog = true
	}

	sess.log.InfoObj("watcher starting", "config", sess.cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWatcher(ctx, sess.cfg, sess.api, sess.log)
	if err != nil {
		sess.log.ErrorObj("failed to initialize watcher", "error", err.Error())
		return err
	}
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watcher run: %w", err)
	}
	return nil
}
