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
	"GoldDashboard/internal/model"
	"GoldDashboard/internal/notifier"
	"GoldDashboard/internal/report"
	"GoldDashboard/internal/scheduler"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
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

	gen := report.NewGenerator(src, store, lg)
	col := collector.NewCollector(src, cfg.Indicators.Window, lg)
	sched := scheduler.NewScheduler(ctx, gen, col, rec, nil, lg)

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() && !cmd.Bool("no-publish") {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		sched.Publisher = tn
	}

	if cmd.Bool("once") {
		var day time.Time
		if cmd.IsSet("date") {
			day = cmd.Timestamp("date")
		}
		rep, err := sched.RunReportNow(day)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
		fmt.Println(rep.Text)
		if rep.Status != model.ReportStatusOK {
			lg.Warn("report generated without data", zap.String("day", rep.Day.Format(model.DateLayout)))
		}
		return nil
	}

	if err := sched.RegisterReport(cfg.Schedule.ReportCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info("telegram polling started")
	}

	if cmd.Bool("run-on-start") {
		go func() {
			if _, err := sched.RunReportNow(time.Time{}); err != nil {
				lg.Error("initial report failed", zap.Error(err))
			}
		}()
	}

	lg.Info("gold reporter running",
		zap.String("source", src.Name()),
		zap.String("report", store.Name()),
		zap.String("cron", cfg.Schedule.ReportCron))
	<-ctx.Done()
	lg.Info("gold reporter stopped")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "reporter",
		Usage: "Generate the daily gold price report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				Value:   "configs/config.yaml",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Generate a single report and exit",
			},
			&cli.TimestampFlag{
				Name:  "date",
				Usage: "Report day in `YYYY-MM-DD` format (with --once). Defaults to the most recent day with data.",
				Config: cli.TimestampConfig{
					Layouts: []string{model.DateLayout},
				},
			},
			&cli.BoolFlag{
				Name:    "run-on-start",
				Usage:   "Generate a report immediately before waiting on the schedule",
				Sources: cli.EnvVars("RUN_ON_START"),
			},
			&cli.BoolFlag{
				Name:  "no-publish",
				Usage: "Do not publish reports to Telegram even when configured",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
