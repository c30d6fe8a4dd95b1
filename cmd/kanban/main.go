package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jask/kanban/internal/attach"
	"github.com/jask/kanban/internal/board"
	"github.com/jask/kanban/internal/config"
	"github.com/jask/kanban/internal/editor"
	"github.com/jask/kanban/internal/logging"
	"github.com/jask/kanban/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fs := config.Flags()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("flags: %v", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	b := board.New(board.WithLogger(logger.Named("board")))
	session := editor.NewSession(editor.Options{
		Reporter:      cfg.Session.Reporter,
		UpdateInPlace: cfg.Editor.UpdateInPlace,
		Logger:        logger.Named("editor"),
	})
	logger.Info("starting",
		zap.String("reporter", session.Reporter()),
		zap.Bool("update_in_place", cfg.Editor.UpdateInPlace),
		zap.String("timezone", loc.String()),
	)

	p := tea.NewProgram(tui.New(ctx, cfg, tui.Deps{
		Board:   b,
		Session: session,
		Decoder: attach.NewDecoder(cfg.Attach.MaxBytes),
		Logger:  logger.Named("tui"),
	}, loc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		_ = logger.Sync()
		log.Fatalf("run: %v", err)
	}
}
