// Package main implements the taskmaker terminal task list.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nhle/taskmaker/internal/app"
	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
	"github.com/nhle/taskmaker/internal/viewmodel"
)

func main() {
	os.Exit(run())
}

// run executes the command line and returns the process exit code.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "taskmaker:", err)
		return 1
	}
	return 0
}

var (
	configPath string
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:           "taskmaker",
	Short:         "A personal task list with colours, due times and search",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the task database (overrides storage.dir)")
}

// env is everything a command needs once configuration is resolved.
type env struct {
	cfg     *model.AppConfig
	logger  *slog.Logger
	store   *store.SQLiteStore
	logFile *os.File
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.Dir = dataDir
	}
	return cfg, nil
}

// openEnv resolves configuration, starts logging and creates the store.
// The database itself is opened lazily by the first store call.
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.Storage.Dir, err)
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Storage.Dir, store.DatabaseName)
	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   store.NewSQLiteStore(dbPath, logger),
		logFile: logFile,
	}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("closing task store", "error", err)
	}
	_ = e.logFile.Close()
}

// context returns a context bounded by the configured store timeout.
func (e *env) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.Storage.Timeout)
}

// newLogger opens the log file and returns a text logger tagged with a
// per-process session id. The terminal belongs to the UI, so nothing is
// logged to stderr.
func newLogger(cfg *model.AppConfig) (*slog.Logger, *os.File, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, nil, fmt.Errorf("parsing log.level %q: %w", cfg.Log.Level, err)
	}

	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString())
	slog.SetDefault(logger)
	return logger, f, nil
}

// withEnv runs fn with an opened env and closes it afterwards.
func withEnv(fn func(e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	return withEnv(func(e *env) error {
		ctx, cancel := e.context()
		defer cancel()
		if err := e.store.Initialize(ctx); err != nil {
			return err
		}

		e.logger.Info("starting terminal UI", "data_dir", e.cfg.Storage.Dir)
		p := tea.NewProgram(
			app.New(viewmodel.New(e.store), e.cfg, e.logger),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running terminal UI: %w", err)
		}
		return nil
	})
}

// parseID parses a task id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
