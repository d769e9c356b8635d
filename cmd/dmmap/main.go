package main

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dmmap/internal/config"
	"dmmap/internal/logging"
	"dmmap/internal/store"
	"dmmap/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout belongs to the terminal UI
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.Setup(logOut, cfg.Log.Level, cfg.Log.Format)

	st, err := store.Open(context.Background(), cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	opts := tui.Options{
		Center:        cfg.Map.Center(),
		Style:         cfg.Map.MapStyle(),
		Threshold:     cfg.Render.VisibleThreshold,
		IdleDelay:     cfg.Render.IdleDelay,
		PanFrames:     cfg.Render.PanFrames,
		ProgressEvery: cfg.Ingest.ProgressEvery,
		Store:         st,
	}

	var m tea.Model
	if len(os.Args) > 1 {
		m = tui.NewWithPath(os.Args[1], opts)
	} else {
		m = tui.New(opts)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Fatal(err)
	}
}
