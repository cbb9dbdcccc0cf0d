package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	xclip "golang.design/x/clipboard"

	"driftboard/internal/app"
	"driftboard/internal/config"
	"driftboard/internal/session"
)

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: per-user config dir)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "driftboard: %v\n", err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if *verbose {
		level = log.DebugLevel
	}
	logger := newLogger(level)

	var sess session.Session
	if dir, err := session.DefaultDir(); err == nil {
		store := session.NewFileStore(dir)
		s, err := store.Load()
		switch {
		case err == nil && s.Valid(time.Now()):
			sess = s
		case err == nil:
			logger.Warn("saved session expired, running anonymously")
		case errors.Is(err, session.ErrNoSession):
		default:
			logger.Warn("session file unreadable", "err", err)
		}
	}

	imageClipboard := xclip.Init() == nil
	if !imageClipboard {
		logger.Debug("image clipboard unavailable, image paste disabled")
	}

	a := app.New(cfg, logger, sess, imageClipboard)
	if err := a.Run(); err != nil {
		logger.Fatal("driftboard failed", "err", err)
	}
}
