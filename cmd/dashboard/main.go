package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GoldDashboard/internal/app"
	"GoldDashboard/internal/collector"
	"GoldDashboard/internal/config"
	"GoldDashboard/internal/logger"
	"GoldDashboard/internal/metrics"
	"GoldDashboard/internal/report"
	"GoldDashboard/internal/scheduler"
	"GoldDashboard/internal/server"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	zl, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()
	lg := zl.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := app.NewSource(cfg, lg)
	if err != nil {
		return err
	}
	store, closeStore, err := app.NewReportStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()
	rec := app.NewRecorder(cfg, lg)
	defer rec.Close()

	m := metrics.NewMetrics()
	col := collector.NewCollector(src, cfg.Indicators.Window, lg)
	srv := server.NewServer(col, store, rec, m, lg, server.Options{
		RefreshInterval: cmd.Duration("refresh-interval"),
		ReportInterval:  cmd.Duration("report-interval"),
	})

	var gen *report.Generator
	if cmd.Bool("generate") {
		gen = report.NewGenerator(src, store, lg)
	}
	sched := scheduler.NewScheduler(ctx, gen, col, rec, m, lg)
	if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron, srv.PushDashboard); err != nil {
		return err
	}
	if gen != nil {
		if err := sched.RegisterReport(cfg.Schedule.ReportCron); err != nil {
			return err
		}
	}
	if err := sched.RegisterRefresh(cfg.Schedule.ReportCron, func() { srv.PushReport(ctx) }); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	lg.Info("gold dashboard starting",
		zap.String("source", src.Name()),
		zap.String("report", store.Name()),
		zap.Int("window", cfg.Indicators.Window),
		zap.Bool("generate", gen != nil))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.HTTP.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutdown signal received, stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http shutdown failed", zap.Error(err))
	}
	lg.Info("gold dashboard stopped")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "dashboard",
		Usage: "Serve the live gold price dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides http.addr",
			},
			&cli.DurationFlag{
				Name:  "refresh-interval",
				Usage: "Browser polling interval for the chart and KPI cards",
				Value: 5 * time.Minute,
			},
			&cli.DurationFlag{
				Name:  "report-interval",
				Usage: "Browser polling interval for the report panel",
				Value: 10 * time.Minute,
			},
			&cli.BoolFlag{
				Name:    "generate",
				Usage:   "Also regenerate the daily report in-process on schedule.report_cron",
				Sources: cli.EnvVars("GENERATE_REPORTS"),
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
