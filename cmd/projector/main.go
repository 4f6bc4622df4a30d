package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"projector/internal/app"
	"projector/internal/config"
	"projector/internal/customize"
	"projector/internal/discovery"
	"projector/internal/icon"
	"projector/internal/kvstore"
	"projector/internal/launch"
	"projector/internal/metadata"
	"projector/internal/wslpath"
)

var (
	configPath = flag.String("config", "", "path to config file")
	debug      = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "projector is interactive and needs a terminal")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	stateDir := config.StateDir()
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create state dir: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns stderr, so logs go to a file in the state dir.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logFile, err := os.OpenFile(filepath.Join(stateDir, "projector.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))
	kv, err := kvstore.OpenSQLite(filepath.Join(stateDir, "projector.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	meta := metadata.NewStore(kv, logger)
	custom := customize.NewStore(kv, logger)
	icons := icon.NewResolver(kv, logger)
	engine := discovery.NewEngine(kv, meta, logger)
	wsl := wslpath.NewResolver(wslpath.ExecRunner{}, logger)
	launcher := launch.NewLauncher(cfg.EditorArgv(), wsl, meta, launch.ExecRunner{}, logger)
	creator := launch.NewCreator(launch.ExecRunner{}, logger)
	probe := launch.NewBranchProbe(kv, launch.ExecRunner{}, logger)

	model := app.New(cfg, engine, meta, custom, icons, launcher, creator, probe, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
