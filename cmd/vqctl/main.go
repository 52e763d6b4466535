package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umputun/go-flags"

	"github.com/samvad-hq/vidqueue-client/internal/config"
	"github.com/samvad-hq/vidqueue-client/internal/logger"
	"github.com/samvad-hq/vidqueue-client/pkg/vidqueue"
)

type options struct {
	BaseURL string        `long:"base-url" description:"backend base URL, overrides VQ_BASE_URL"`
	Timeout time.Duration `long:"timeout" description:"request timeout, overrides VQ_REQUEST_TIMEOUT_SECONDS"`
	Dbg     bool          `long:"dbg" description:"log requests to stderr"`

	Queue    queueCommand    `command:"queue" description:"manage the download queue"`
	History  historyCommand  `command:"history" description:"inspect or clear download history"`
	Settings settingsCommand `command:"settings" description:"read or change backend settings"`
	Download downloadCommand `command:"download" description:"control the download worker"`
	Videos   videosCommand   `command:"videos" description:"manage downloaded videos"`
	Watch    watchCommand    `command:"watch" description:"publish notifications for finished downloads"`
}

var (
	opts   options
	stdout io.Writer = os.Stdout

	// loadConfig is swapped in tests to avoid reading the environment.
	loadConfig = config.Load
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts = options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "vqctl"
	_, err := parser.ParseArgs(args)
	return err
}

// session is the state shared by every API command of a single invocation.
type session struct {
	cfg *config.Config
	log logger.Logger
	api *vidqueue.Client
}

// newSession loads config and builds the API client. The zap logger is only
// initialized when withLogger is set or --dbg is given.
func newSession(withLogger bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.RequestTimeout = opts.Timeout
	}

	var log logger.Logger = logger.NopLogger{}
	if opts.Dbg {
		cfg.LogLevel = "debug"
	}
	if withLogger || opts.Dbg {
		zl, err := logger.Init(cfg)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = zl
	}

	api := vidqueue.New(vidqueue.Options{
		BaseURL:   cfg.BaseURL,
		APIPrefix: cfg.APIPrefix,
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})
	return &session{cfg: cfg, log: log, api: api}, nil
}

// invoke runs one API call and prints its result.
func invoke(call func(ctx context.Context, api *vidqueue.Client) (any, error)) error {
	sess, err := newSession(false)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := call(ctx, sess.api)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
