package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"LocalNotes/internal/config"
	"LocalNotes/internal/document"
	"LocalNotes/internal/export"
	notesnet "LocalNotes/internal/net"
	"LocalNotes/internal/state"
	"LocalNotes/internal/storage"
	"LocalNotes/internal/ui"
)

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, debug bool) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newBoard(cfg *config.Config, logger *slog.Logger) *state.Board {
	return state.New(
		state.WithHistoryLimit(cfg.Board.HistoryLimit),
		state.WithBrushSize(cfg.Board.BrushSize),
		state.WithColor(cfg.Board.Color),
		state.WithLogger(logger),
	)
}

func uiOptions(cfg *config.Config, logger *slog.Logger) ui.Options {
	return ui.Options{
		Background: cfg.Board.Background,
		PageWidth:  cfg.Board.PageWidth,
		PageHeight: cfg.Board.PageHeight,
		Logger:     logger,
	}
}

func isShareLink(arg string) bool {
	return notesnet.IsLink(arg)
}

func runBoard(ctx context.Context, flags runFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Logging, flags.debug)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	board := newBoard(cfg, logger)
	if flags.open != "" {
		pages, err := document.Load(flags.open)
		if err != nil {
			return err
		}
		if err := board.LoadDocument(pages); err != nil {
			return err
		}
	}

	var (
		wg       sync.WaitGroup
		cleanups []func()
	)
	defer func() {
		cancel()
		wg.Wait()
		for _, fn := range cleanups {
			fn()
		}
	}()

	if cfg.Autosave.Enabled {
		closeStore, err := startAutosave(ctx, cfg, board, logger, flags.open == "" && !flags.fresh, &wg)
		if err != nil {
			logger.Warn("autosave disabled", "error", err)
		} else {
			cleanups = append(cleanups, closeStore)
		}
	}

	opts := uiOptions(cfg, logger)
	if flags.share || cfg.Share.Enabled {
		link, stopShare := startShare(ctx, cfg, board, logger, &wg)
		cleanups = append(cleanups, stopShare)
		opts.ShareLink = link
	}

	app := ui.New(board, opts)
	stop := context.AfterFunc(ctx, app.Quit)
	defer stop()
	app.Run()
	return nil
}

// startAutosave opens the autosave store, optionally restores the newest
// snapshot into board, and saves every later change in the background until
// ctx is done. The returned func closes the store once wg has finished.
func startAutosave(ctx context.Context, cfg *config.Config, board *state.Board, logger *slog.Logger, restore bool, wg *sync.WaitGroup) (func(), error) {
	if err := os.MkdirAll(cfg.Autosave.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := storage.Open(ctx, cfg.AutosavePath())
	if err != nil {
		return nil, err
	}

	if restore {
		snap, err := store.Latest(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			logger.Warn("could not restore autosave", "error", err)
		default:
			if err := board.LoadDocument(snap.Pages); err != nil {
				logger.Warn("could not restore autosave", "id", snap.ID, "error", err)
			} else {
				logger.Info("restored autosave", "id", snap.ID, "pages", snap.Pages.Len(), "saved_at", snap.SavedAt)
			}
		}
	}

	saver := storage.NewAutosaver(store, cfg.Autosave.Keep, logger)
	board.OnChange(saver.Offer)
	wg.Add(1)
	go func() {
		defer wg.Done()
		saver.Run(ctx)
	}()

	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("close autosave store", "error", err)
		}
	}, nil
}

// startShare publishes board to viewers and returns the share link.
func startShare(ctx context.Context, cfg *config.Config, board *state.Board, logger *slog.Logger, wg *sync.WaitGroup) (string, func()) {
	port := cfg.Share.Port
	host := notesnet.NewHost(logger, notesnet.NewMetrics())
	host.Publish(board.Snapshot())
	board.OnChange(host.Publish)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := host.Serve(ctx, fmt.Sprintf(":%d", port)); err != nil {
			logger.Error("share host stopped", "error", err)
		}
	}()

	stop := func() {}
	if cfg.Share.Advertise {
		server, err := notesnet.Advertise(port)
		if err != nil {
			logger.Warn("mDNS advertisement failed", "error", err)
		} else {
			stop = func() {
				if err := server.Shutdown(); err != nil {
					logger.Warn("mDNS shutdown", "error", err)
				}
			}
		}
	}

	link := notesnet.ShareLink(notesnet.LocalIP(), port)
	logger.Info("sharing board", "link", link)
	return link, stop
}

func runJoin(ctx context.Context, link, configPath string, debug bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Logging, debug)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var addr string
	if strings.TrimSpace(link) == "" {
		logger.Info("looking for a share host", "timeout", cfg.Share.DiscoverTimeout)
		addr, err = notesnet.Discover(ctx, cfg.Share.DiscoverTimeout)
	} else {
		addr, err = notesnet.ParseLink(link)
	}
	if err != nil {
		return err
	}

	board := newBoard(cfg, logger)
	opts := uiOptions(cfg, logger)
	opts.ReadOnly = true
	opts.Title = "LocalNotes - " + addr
	app := ui.New(board, opts)

	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var connected sync.Once
		err := notesnet.Join(ctx, addr, logger, func(u notesnet.Update) {
			connected.Do(func() { app.SetStatus("Connected to " + addr) })
			app.ShowRemote(u.Pages)
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("viewer stopped", "error", err)
			app.SetStatus(fmt.Sprintf("Disconnected: %v", err))
		}
	}()

	stop := context.AfterFunc(ctx, app.Quit)
	defer stop()
	app.Run()
	return nil
}

func exportOptions(cfg *config.Config) export.Options {
	return export.Options{
		Width:      cfg.Board.PageWidth,
		Height:     cfg.Board.PageHeight,
		Background: cfg.Board.Background,
	}
}

func runExportPDF(w io.Writer, configPath, in, out string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	pages, err := document.Load(in)
	if err != nil {
		return err
	}
	if err := export.WritePDF(out, pages, exportOptions(cfg)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d pages to %s\n", pages.Len(), out)
	return nil
}

func runExportPNG(w io.Writer, configPath, in, out string, page int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	pages, err := document.Load(in)
	if err != nil {
		return err
	}
	if err := export.WritePNG(out, pages, page-1, exportOptions(cfg)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote page %d to %s\n", page, out)
	return nil
}

func runInfo(w io.Writer, in string) error {
	pages, err := document.Load(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d pages, %d strokes\n", in, pages.Len(), pages.StrokeCount())
	for i, page := range pages.All() {
		pen, eraser := 0, 0
		for _, s := range page {
			if s.Tool == state.ToolEraser {
				eraser++
			} else {
				pen++
			}
		}
		fmt.Fprintf(w, "  page %d: %d pen, %d eraser\n", i+1, pen, eraser)
	}
	return nil
}
