package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/faizmokh/belajar/internal/config"
	"github.com/faizmokh/belajar/internal/files"
	"github.com/faizmokh/belajar/internal/kv"
	"github.com/faizmokh/belajar/internal/logbook"
	"github.com/faizmokh/belajar/internal/logging"
)

// App carries the collaborators every command shares. The store and config
// are opened on first use so flags such as --home can still redirect them.
type App struct {
	manager *files.Manager
	verbose bool
	logOut  io.Writer

	cfg    *config.Config
	logger *slog.Logger
	slot   kv.Slot
	closer io.Closer
	store  *logbook.Store

	now         func() time.Time
	interactive func() bool
	confirm     func(title string) (bool, error)
	copyText    func(text string) error
}

// NewApp wires an App rooted at manager's base directory.
func NewApp(manager *files.Manager) *App {
	return &App{
		manager:     manager,
		logOut:      os.Stderr,
		now:         time.Now,
		interactive: stdioIsTerminal,
		confirm:     confirmPrompt,
		copyText:    clipboard.WriteAll,
	}
}

// Manager exposes the path layout.
func (a *App) Manager() *files.Manager {
	return a.manager
}

func (a *App) setHome(path string) error {
	if a.store != nil {
		return errors.New("cannot change home after the store is open")
	}
	manager, err := files.NewManager(path)
	if err != nil {
		return err
	}
	a.manager = manager
	a.cfg = nil
	a.logger = nil
	return nil
}

// Config loads config.toml once.
func (a *App) Config() (config.Config, error) {
	if a.cfg != nil {
		return *a.cfg, nil
	}
	cfg, err := config.Load(a.manager.ConfigPath())
	if err != nil {
		return cfg, err
	}
	a.cfg = &cfg
	return cfg, nil
}

// Logger builds the stderr logger at the configured level. --verbose forces
// debug.
func (a *App) Logger() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	level := config.DefaultLogLevel
	if cfg, err := a.Config(); err == nil {
		level = cfg.LogLevel
	}
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(a.logOut, level)
	return a.logger
}

// Store opens the bbolt file under the base directory and loads the sessions.
func (a *App) Store(ctx context.Context) (*logbook.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if _, err := a.Config(); err != nil {
		return nil, err
	}
	logger := a.Logger()

	if a.slot == nil {
		if err := a.manager.EnsureBase(); err != nil {
			return nil, err
		}
		bolt, err := kv.OpenBolt(a.manager.DataPath())
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		a.slot = bolt
		a.closer = bolt
		logger.DebugContext(ctx, "opened data file", "path", bolt.Path())
	}

	store := logbook.NewStore(a.slot, logbook.WithLogger(logger))
	store.Load(ctx)
	a.store = store
	return store, nil
}

// Close releases the data file. It is safe to call more than once.
func (a *App) Close() error {
	a.store = nil
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	a.slot = nil
	return err
}

func stdioIsTerminal() bool {
	isTerm := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return isTerm(os.Stdout.Fd()) && isTerm(os.Stdin.Fd())
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
