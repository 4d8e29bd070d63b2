package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Levilaell/script-post-ai/internal/browser"
	"github.com/Levilaell/script-post-ai/internal/cms"
	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/database"
	"github.com/Levilaell/script-post-ai/internal/generation"
	"github.com/Levilaell/script-post-ai/internal/httpclient"
	"github.com/Levilaell/script-post-ai/internal/imaging"
	"github.com/Levilaell/script-post-ai/internal/orchestrator"
	"github.com/Levilaell/script-post-ai/internal/pin"
	"github.com/Levilaell/script-post-ai/internal/repository"
	"github.com/Levilaell/script-post-ai/internal/transfer"
	"github.com/Levilaell/script-post-ai/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one campaign and exit",
	Long: `Run the configured campaign once: log in to the social platform,
then for each iteration generate content, publish the post to the CMS,
and publish a promotional pin. The browser session is torn down when the
campaign ends, whatever the outcome.`,
	RunE: runCampaign,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runCampaign(cobraCmd *cobra.Command, _ []string) error {
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

	return orch.Run(ctx)
}

// buildOrchestrator wires every component for a campaign. The returned
// cleanup closes the browser session and the database and must always run,
// regardless of how the campaign ended.
func buildOrchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, func(), error) {
	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening ledger database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	repo := repository.NewCampaignRunRepository(db)

	hcCfg := httpclient.DefaultConfig()
	hcCfg.UserAgent = version.UserAgent()
	hcCfg.Logger = logger
	hc := httpclient.New(hcCfg)

	chat := generation.NewClient(cfg.Generation, hc, logger)
	renderer := imaging.NewClient(cfg.Imaging, hc, logger)

	var mirror imaging.Mirror
	if cfg.Transfer.Enabled {
		mirror = transfer.New(cfg.Transfer, logger)
	}
	store := imaging.NewStore(cfg.Storage, mirror, logger)

	assembler := generation.NewAssembler(chat, renderer, store, cfg.Generation, logger)
	resolver := cms.NewResolver(cfg.CMS, hc, logger)
	gateway := cms.NewGateway(cfg.CMS, hc, logger)

	session, err := browser.NewSession(ctx, cfg.Browser, cfg.Storage.ScreenshotDir, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		session.Close()
		_ = db.Close()
	}

	// One login per run; without it there is nothing worth generating.
	if err := session.Login(cfg.Pinterest); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("login failed, aborting run: %w", err)
	}

	pins := pin.NewPublisher(session, cfg.Generation.TitleMaxLength, logger)
	orch := orchestrator.New(cfg.Campaign, assembler, resolver, gateway, pins, repo, logger)
	return orch, cleanup, nil
}
