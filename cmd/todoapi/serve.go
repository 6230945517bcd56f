package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todo-api/internal/api"
	"todo-api/internal/notify"
	"todo-api/internal/repository"
	"todo-api/internal/service"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", ":3000", "listen address")
	cmd.Flags().Bool("seed", true, "load sample categories and todos at startup")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	db, err := repository.NewDB(cfg.DatabaseDSN, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	clock := service.Clock(time.Now)
	categories := service.NewCategoryService(repository.NewCategoryRepository(db), clock)
	todos := service.NewTodoService(repository.NewTodoRepository(db), categories, clock)
	reminders := service.NewReminderService(todos, categories)

	if cfg.Seed {
		if err := service.Seed(ctx, categories, todos, time.Now()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	count, err := todos.Count(ctx)
	if err != nil {
		return fmt.Errorf("count todos: %w", err)
	}
	log.Info("store ready", "todos", count, "seeded", cfg.Seed)

	notifier, err := a.notifier()
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}
	scheduler := service.NewSchedulerService(time.Local, log)
	sched := service.ReportSchedule{Interval: cfg.ReportInterval, DailyAt: cfg.ReportDailyAt}
	scheduled, err := scheduler.ScheduleReports(sched, reportJob(reminders, notifier, log, time.Now))
	if err != nil {
		return err
	}
	if scheduled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := api.New(api.Options{
		Todos:       todos,
		Categories:  categories,
		Logger:      log,
		Development: cfg.Development(),
	})
	log.Info("todo api started", "addr", cfg.Addr, "env", cfg.Env, "endpoints", strings.Join(srv.Routes(), ", "))

	if err := srv.Run(ctx, cfg.Addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func (a *app) notifier() (notify.Notifier, error) {
	if a.cfg.TelegramToken == "" {
		return notify.NewLogNotifier(a.log), nil
	}
	return notify.NewTelegramNotifier(a.cfg.TelegramToken, a.cfg.TelegramChatID, a.log)
}

// reportJob builds the overdue/due-soon report and hands it to n. Empty
// reports are skipped.
func reportJob(reminders *service.ReminderService, n notify.Notifier, log *slog.Logger, now func() time.Time) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		report, err := reminders.Report(ctx, now())
		if err != nil {
			log.Error("build report", "error", err)
			return
		}
		if report.Empty() {
			log.Debug("nothing to report")
			return
		}
		if err := n.Notify(ctx, report.Text()); err != nil {
			log.Error("send report", "error", err)
		}
	}
}
