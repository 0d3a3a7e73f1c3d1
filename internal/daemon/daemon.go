package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"easel/internal/api"
	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/queue"
)

// Daemon owns the queue store and the API server and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *queue.Store
	service *api.QueueService
	server  *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	QueueDBPath  string
	ImageDir     string
	LockFilePath string
	LeaseSeconds int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, service *api.QueueService, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || service == nil {
		return nil, errors.New("daemon requires config, store, and queue service")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "easeld.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		store:    store,
		service:  service,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, recovers stale reservations, and
// launches the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another easel daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// Any reservation in the store belongs to a previous process; its
	// clients cannot hold live leases across a restart.
	released, err := d.store.ReleaseAll(d.ctx)
	if err != nil {
		d.shutdownLocked()
		return fmt.Errorf("recover reservations: %w", err)
	}
	if released > 0 {
		d.logger.Info("recovered stale reservations", logging.Int64("count", released))
	}

	if err := d.server.start(d.ctx); err != nil {
		d.shutdownLocked()
		return err
	}

	d.running.Store(true)
	d.logger.Info("easel daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.running.Store(false)

	d.server.stop()
	d.shutdownLocked()
	d.logger.Info("easel daemon stopped")
}

// Addr reports the API listen address once started, for tests and
// status output.
func (d *Daemon) Addr() string {
	return d.server.addr()
}

// Status reports current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		QueueDBPath:  d.store.Path(),
		ImageDir:     d.cfg.Paths.ImageDir,
		LockFilePath: d.lockPath,
		LeaseSeconds: d.cfg.Queue.LeaseSeconds,
	}
}

func (d *Daemon) shutdownLocked() {
	if d.cancel != nil {
		d.cancel()
		d.ctx = nil
		d.cancel = nil
	}
	_ = d.lock.Unlock()
}
