package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/prioplan/backend/api/handler"
	"github.com/prioplan/backend/internal/config"
	"github.com/prioplan/backend/internal/infrastructure/snapshot"
	"github.com/prioplan/backend/internal/router"
	"github.com/prioplan/backend/internal/services"
	"github.com/prioplan/backend/internal/services/lifecycle"
	"github.com/prioplan/backend/pkg/httpcontext"
	"github.com/prioplan/backend/pkg/logger"
	"github.com/prioplan/backend/pkg/timeparse"
	"github.com/prioplan/backend/repository/memory"
	"github.com/prioplan/backend/usecase/scheduler"
)

func main() {
	cfg := config.MustLoad()

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.NotifyContext(context.Background())
	defer cancel()

	store := memory.NewTaskStore(zapLogger)
	engine := scheduler.New(store, timeparse.New(nil), zapLogger)

	snapStore, err := snapshot.Open(cfg.Snapshot.Path, cfg.Snapshot.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	manager.Register("snapshot_store", func(ctx context.Context) error {
		return snapStore.Close()
	})

	keeper := services.NewSnapshotKeeper(engine, snapStore, zapLogger, services.KeeperConfig{
		Interval:  cfg.Snapshot.SaveInterval,
		Retention: cfg.Snapshot.Retention,
	})
	if err := keeper.Restore(appCtx); err != nil {
		zapLogger.Fatal("snapshot restore failed", zap.Error(err))
	}
	keeper.Start()
	manager.Register("snapshot_keeper", func(ctx context.Context) error {
		keeper.Stop(ctx)
		return nil
	})

	if cfg.SeedDemo && store.Len() == 0 {
		seedDemoTasks(appCtx, engine, zapLogger)
	}

	if cfg.Reminder.Enabled {
		scanner := services.NewReminderScanner(engine, nil, zapLogger, services.ReminderConfig{
			Interval: cfg.Reminder.Interval,
			Window:   cfg.Reminder.Window,
			Grace:    cfg.Reminder.Grace,
		})
		scanner.Start()
		manager.Register("reminder_scanner", func(ctx context.Context) error {
			scanner.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(engine, ctxAdapter, zapLogger),
		Schedule: apiHandler.NewScheduleHandler(engine, ctxAdapter, zapLogger),
		Snapshot: apiHandler.NewSnapshotHandler(engine, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(engine, snapStore, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func seedDemoTasks(ctx context.Context, engine *scheduler.Engine, zapLogger *zap.Logger) {
	five, two, three := 5, 2, 3
	seeds := []scheduler.CreateTaskParams{
		{
			Title:       "Welcome: your priority planner is ready",
			Description: "This is a demo task (auto-generated)",
			Priority:    &five,
		},
		{
			Title:        "Finish report by tomorrow",
			Description:  "Q3 summary",
			Priority:     &two,
			DeadlineText: "tomorrow",
		},
		{
			Title:        "Quick call with team",
			Description:  "Discuss milestones",
			Priority:     &three,
			DeadlineText: "in 8 hours",
		},
	}
	for _, p := range seeds {
		if _, err := engine.CreateTask(ctx, p); err != nil {
			zapLogger.Warn("failed to seed demo task", zap.String("title", p.Title), zap.Error(err))
		}
	}
}
