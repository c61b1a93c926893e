package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"shortlist/internal/api"
	"shortlist/internal/config"
	"shortlist/internal/feed"
	"shortlist/internal/identity"
	"shortlist/internal/logging"
	"shortlist/internal/task"
)

// Daemon coordinates the task service and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *task.Store
	users    *identity.Store
	sessions *identity.Sessions
	hub      *feed.Hub
	tasks    *api.TaskService

	lockPath string
	lock     *flock.Flock

	apiSrv *apiServer
	cron   *cron.Cron

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	PID            int
	DatabasePath   string
	LockFilePath   string
	TaskCounts     map[string]int
	ActiveSessions int
	FeedSequence   uint64
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *task.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	hub := feed.NewHub(cfg.Feed.Buffer)
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		users:    identity.NewStore(store.DB()),
		sessions: identity.NewSessions(cfg.SessionTTL()),
		hub:      hub,
		tasks:    api.NewTaskService(store, hub, logger),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		cron:     cron.New(),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiSrv = srv
	return d, nil
}

// Start acquires the daemon lock, seeds bootstrap data, and launches the API
// server plus maintenance jobs. Seeding failures abort startup: a broken
// initial state is not recoverable at runtime.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shortlistd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.seed(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("seed initial data: %w", err)
	}

	if err := d.scheduleMaintenance(); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}
	d.cron.Start()

	if d.apiSrv != nil {
		if err := d.apiSrv.start(runCtx); err != nil {
			d.cron.Stop()
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("shortlistd started",
		logging.String("lock", d.lockPath),
		logging.String("db", d.store.Path()),
	)
	return nil
}

// Stop stops the API server and maintenance jobs and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.apiSrv != nil {
		d.apiSrv.stop()
	}
	<-d.cron.Stop().Done()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("shortlistd stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports current runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		DatabasePath:   d.store.Path(),
		LockFilePath:   d.lockPath,
		ActiveSessions: d.sessions.Active(),
		FeedSequence:   d.hub.LastSequence(),
	}
	if counts, err := d.store.Stats(ctx); err == nil {
		status.TaskCounts = counts
	}
	return status
}

// Tasks exposes the task service for the API layer.
func (d *Daemon) Tasks() *api.TaskService {
	return d.tasks
}

// Users exposes the account store for the API layer.
func (d *Daemon) Users() *identity.Store {
	return d.users
}

// Sessions exposes the session manager for the API layer.
func (d *Daemon) Sessions() *identity.Sessions {
	return d.sessions
}

// APIAddr reports the bound API listener address, empty before Start.
func (d *Daemon) APIAddr() string {
	if d.apiSrv == nil {
		return ""
	}
	return d.apiSrv.addr()
}

func (d *Daemon) scheduleMaintenance() error {
	spec := d.cfg.Maintenance.SessionPurge
	if spec == "" {
		return nil
	}
	_, err := d.cron.AddFunc(spec, func() {
		if removed := d.sessions.PurgeExpired(); removed > 0 {
			d.logger.Debug("purged expired sessions", logging.Int("removed", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}
	return nil
}
