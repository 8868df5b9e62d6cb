package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/prioplan/backend/internal/infrastructure/snapshot"
)

// SnapshotPort is the slice of the scheduling engine the keeper needs.
type SnapshotPort interface {
	ExportSnapshot(ctx context.Context) ([]byte, error)
	ImportSnapshot(ctx context.Context, data []byte) error
}

// KeeperConfig controls how often the store snapshot is persisted and how
// much history is retained.
type KeeperConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// SnapshotKeeper persists the engine's export payload to the snapshot store
// on a timer and restores the latest one at boot. It only ever speaks the
// export/import contract; it has no view into individual tasks.
type SnapshotKeeper struct {
	engine SnapshotPort
	store  *snapshot.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    KeeperConfig
}

func NewSnapshotKeeper(engine SnapshotPort, store *snapshot.Store, logger *zap.Logger, cfg KeeperConfig) *SnapshotKeeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sk := &SnapshotKeeper{
		engine: engine,
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = sk.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := sk.SaveNow(ctx); err != nil {
			sk.logger.Error("snapshot autosave failed", zap.Error(err))
		}
	})

	return sk
}

// Restore imports the latest persisted snapshot, if any.
func (sk *SnapshotKeeper) Restore(ctx context.Context) error {
	payload, err := sk.store.Load()
	if err != nil {
		return err
	}
	if payload == nil {
		sk.logger.Info("no persisted snapshot, starting empty")
		return nil
	}
	if err := sk.engine.ImportSnapshot(ctx, payload); err != nil {
		return err
	}
	sk.logger.Info("snapshot restored", zap.Int("bytes", len(payload)))
	return nil
}

// SaveNow exports the current store and persists it, pruning stale history.
func (sk *SnapshotKeeper) SaveNow(ctx context.Context) error {
	payload, err := sk.engine.ExportSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := sk.store.Save(payload); err != nil {
		return err
	}
	return sk.store.Prune(time.Now().Add(-sk.cfg.Retention))
}

// Start launches the autosave scheduler.
func (sk *SnapshotKeeper) Start() {
	if sk == nil || sk.cron == nil {
		return
	}
	sk.cron.Start()
	sk.logger.Info("snapshot keeper started", zap.Duration("interval", sk.cfg.Interval))
}

// Stop halts the scheduler and takes a final snapshot.
func (sk *SnapshotKeeper) Stop(ctx context.Context) {
	if sk == nil || sk.cron == nil {
		return
	}
	stopCtx := sk.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	if err := sk.SaveNow(ctx); err != nil {
		sk.logger.Error("final snapshot save failed", zap.Error(err))
	}
	sk.logger.Info("snapshot keeper stopped")
}
