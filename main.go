// themedeck manages versioned visual themes for a dashboard: parse and
// validate theme definition files, resolve sparse color maps into full
// variable sets, switch themes with preview/commit semantics, and keep
// community themes reconciled against a remote catalog.
//
// Usage:
//
//	themedeck [flags]
//
// Flags:
//
//	-tui            Launch the interactive theme browser
//	-list           List installed themes
//	-show string    Print the rendered stylesheet for a theme id
//	-apply string   Commit a theme id as the active selection
//	-preview string Start or toggle a preview of a theme id
//	-cancel         Cancel an active preview
//	-export string  Print the definition file for a theme id
//	-import string  Import a definition file into the backend
//	-delete string  Delete a theme id from the backend
//	-sync           Run one catalog reconciliation pass
//	-config string  Path to configuration file
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/themedeck/pkg/activation"
	"gitlab.com/tinyland/lab/themedeck/pkg/catalog"
	"gitlab.com/tinyland/lab/themedeck/pkg/config"
	"gitlab.com/tinyland/lab/themedeck/pkg/engine"
	"gitlab.com/tinyland/lab/themedeck/pkg/reconcile"
	"gitlab.com/tinyland/lab/themedeck/pkg/store"
	"gitlab.com/tinyland/lab/themedeck/pkg/style"
	"gitlab.com/tinyland/lab/themedeck/pkg/theme"
	"gitlab.com/tinyland/lab/themedeck/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runTUI      = flag.Bool("tui", false, "Launch the interactive theme browser")
		listThemes  = flag.Bool("list", false, "List installed themes")
		showID      = flag.String("show", "", "Print the rendered stylesheet for a theme id")
		applyID     = flag.String("apply", "", "Commit a theme id as the active selection")
		previewID   = flag.String("preview", "", "Start or toggle a preview of a theme id")
		cancelPrev  = flag.Bool("cancel", false, "Cancel an active preview")
		exportID    = flag.String("export", "", "Print the definition file for a theme id")
		importPath  = flag.String("import", "", "Import a definition file into the backend")
		deleteID    = flag.String("delete", "", "Delete a theme id from the backend")
		runSync     = flag.Bool("sync", false, "Run one catalog reconciliation pass")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("themedeck %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := parseLogLevel(cfg.General.LogLevel)
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	st, err := newStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	eng := engine.New(engine.Options{
		Store:      st,
		Catalog:    newCatalog(cfg),
		StateDir:   cfg.General.StateDir,
		AutoUpdate: cfg.Updates.AutoUpdate,
		Authorized: cfg.Updates.Authorized,
		Logger:     logger,
	})
	if err := eng.Start(ctx); err != nil {
		logger.Error("engine start failed", "error", err)
		os.Exit(1)
	}

	switch {
	case *runTUI:
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(os.Stderr, "-tui requires a terminal")
			os.Exit(1)
		}
		if err := runBrowser(ctx, eng, st, cfg, logger); err != nil {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}

	case *listThemes:
		st := eng.State()
		for _, t := range eng.Themes() {
			marker := " "
			if t.Meta.ID == st.AppliedID() {
				marker = "*"
			}
			fmt.Printf("%s %-24s %-24s %-10s %s\n",
				marker, t.Meta.ID, t.Meta.Name, t.Meta.Version, t.Meta.Provenance)
		}

	case *showID != "":
		t, ok := eng.Theme(*showID)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown theme %q\n", *showID)
			os.Exit(1)
		}
		fmt.Print(style.Render(theme.Resolve(t), t.Meta))

	case *applyID != "":
		if err := eng.Commit(*applyID); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("applied %s\n", *applyID)

	case *previewID != "":
		if err := eng.Preview(*previewID); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		st := eng.State()
		if st.Phase == activation.PhasePreviewing {
			fmt.Printf("previewing %s (committed: %s)\n", st.Preview, st.Active)
		} else {
			fmt.Printf("preview ended, back on %s\n", st.Active)
		}

	case *cancelPrev:
		eng.CancelPreview()
		fmt.Printf("on %s\n", eng.State().Active)

	case *exportID != "":
		text, err := eng.Export(*exportID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)

	case *importPath != "":
		data, err := os.ReadFile(*importPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		t, err := eng.Import(ctx, filepath.Base(*importPath), data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("imported %s (%s)\n", t.Meta.ID, t.Meta.Name)

	case *deleteID != "":
		if err := eng.Delete(ctx, *deleteID); err != nil {
			fmt.Fprintf(os.Stderr, "delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %s\n", *deleteID)

	case *runSync:
		res, err := eng.Sync(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("sync: %d updated, %d failed, %d skipped\n",
			len(res.Updated), len(res.Failed), res.Skipped)
		for id, uerr := range res.Failed {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", id, uerr)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runBrowser launches the interactive browser, with the backend watcher
// and auto-update scheduler running alongside when configured.
func runBrowser(ctx context.Context, eng *engine.Engine, st store.Store, cfg *config.Config, logger *slog.Logger) error {
	if ds, ok := st.(*store.DirStore); ok && cfg.Storage.Watch {
		go func() {
			err := ds.Watch(ctx, func() {
				if err := eng.Reload(ctx); err != nil {
					logger.Warn("reload after backend change failed", "error", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("backend watch stopped", "error", err)
			}
		}()
	}

	if cfg.Updates.AutoUpdate && cfg.Updates.Interval.Duration > 0 {
		sched, err := reconcile.NewScheduler(cfg.Updates.Interval.Duration, func() {
			if _, err := eng.Sync(ctx); err != nil {
				logger.Warn("scheduled sync failed", "error", err)
			}
		}, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	p := tea.NewProgram(tui.New(eng), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// loadConfig loads from an explicit path or the standard search paths.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// newStore builds the storage backend named by the config.
func newStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "http":
		if cfg.Storage.BaseURL == "" {
			return nil, errors.New("storage.backend \"http\" requires storage.base_url")
		}
		return store.NewHTTPStore(cfg.Storage.BaseURL, nil, logger), nil
	case "dir", "":
		return store.NewDirStore(cfg.Storage.Dir, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newCatalog builds the catalog source named by the config, nil when
// catalog features are disabled.
func newCatalog(cfg *config.Config) catalog.Catalog {
	switch cfg.Catalog.Source {
	case "http":
		return catalog.NewHTTPCatalog(cfg.Catalog.BaseURL, nil)
	case "dir":
		return catalog.NewDirCatalog(cfg.Catalog.Dir)
	default:
		return nil
	}
}

// parseLogLevel maps a config string to a slog level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
