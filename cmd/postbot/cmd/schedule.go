package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Levilaell/script-post-ai/internal/scheduler"
)

var scheduleCron string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run campaigns on a cron schedule",
	Long: `Run the configured campaign repeatedly on a cron schedule. The
browser session is established once at startup and reused across scheduled
campaigns. A tick that fires while a campaign is still running is skipped.`,
	RunE: runScheduled,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "0 6 * * *", "cron expression for campaign starts")
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduled(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	orch, cleanup, err := buildOrchestrator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(orch, logger)
	if err := sched.Start(ctx, scheduleCron); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutdown requested, waiting for in-flight campaign")
	sched.Stop()
	return nil
}
