package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/carekeeper/internal/client/config"
	"github.com/dmitrijs2005/carekeeper/internal/client/events"
	"github.com/dmitrijs2005/carekeeper/internal/client/localdb"
	"github.com/dmitrijs2005/carekeeper/internal/client/notify"
	"github.com/dmitrijs2005/carekeeper/internal/client/services"
	"github.com/dmitrijs2005/carekeeper/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *localdb.DB
	dir     *localdb.Directory
	bus     *events.Bus
	session services.SessionManager
	reader  *bufio.Reader
	out     io.Writer
	unsubs  []func()
}

// NewApp wires the local database, the profile directory and the session
// manager, then restores any persisted session. Logs go to stderr.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdin, os.Stdout, os.Stderr)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, err
	}

	db, err := localdb.Open(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "dsn", c.DatabaseDSN, "error", err)
		return nil, err
	}

	dir, err := db.OpenDirectory(ctx, c.DirectoryDSN)
	if err != nil {
		logger.Error(ctx, "error opening profile directory", "error", err)
		_ = db.Close()
		return nil, err
	}

	bus := events.NewBus()
	sm := services.NewSessionManager(services.Deps{
		Storage:   services.NewLocalStorage(db.Metadata),
		Directory: dir,
		Notifier:  notify.Multi{notify.NewConsole(out), notify.NewLogNotifier(logger)},
		Bus:       bus,
		Logger:    logger,
		MaxAge:    c.SessionMaxAge,
	})

	a := &App{
		config:  c,
		log:     logger,
		db:      db,
		dir:     dir,
		bus:     bus,
		session: sm,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.subscribe()

	if c.SeedDemoUsers {
		if err := sm.CreateDemoUsers(ctx); err != nil {
			logger.Warn(ctx, "demo users not seeded", "error", err)
		}
	}

	if err := sm.Init(ctx); err != nil {
		// start fresh on an unreadable session
		logger.Warn(ctx, "discarding persisted session", "error", err)
		if err := sm.Logout(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// subscribe mirrors session signals to the console.
func (a *App) subscribe() {
	a.unsubs = append(a.unsubs,
		a.bus.OnUserLoggedIn(func(_ context.Context, e events.UserLoggedIn) error {
			printlnFn(fmt.Sprintf("Welcome, %s (%s)", e.User.Name, e.Role))
			return nil
		}),
		a.bus.OnUserLoggedOut(func(context.Context, events.UserLoggedOut) error {
			printlnFn("Logged out")
			return nil
		}),
		a.bus.OnUserProfileUpdated(func(_ context.Context, e events.UserProfileUpdated) error {
			printlnFn("Profile updated for", e.User.Name)
			return nil
		}),
	)
}

// Close releases the session subscriptions and database handles.
func (a *App) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
	a.session.Close()

	err := errors.Join(a.dir.Close(), a.db.Close())
	if err != nil {
		a.log.Error(context.Background(), "error closing databases", "error", err)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Root runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to CareKeeper CLI (type 'help' for commands)")
	if a.isLoggedIn() {
		a.checkSession(ctx)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) checkSession(ctx context.Context) bool {
	return a.session.CheckSessionExpiry(ctx)
}

func (a *App) getStatus() string {
	u, ok := a.session.CurrentUser()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s) ", u.Name, u.Role)
}
