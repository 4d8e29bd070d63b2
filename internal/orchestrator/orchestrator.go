// Package orchestrator runs the campaign loop: assemble content, resolve the
// theme, publish the post, publish the pin, once per iteration with
// randomized pacing in between.
package orchestrator

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/models"
	"github.com/Levilaell/script-post-ai/internal/observability"
	"github.com/Levilaell/script-post-ai/internal/pin"
)

// ContentAssembler builds one content package per iteration and generates
// the pin's keyword hashtags.
type ContentAssembler interface {
	Assemble(ctx context.Context, campaign models.Campaign) (*models.ContentPackage, error)
	GenerateKeywords(ctx context.Context, title, theme string) (string, error)
}

// CategoryResolver ensures the campaign theme exists on the backend.
type CategoryResolver interface {
	EnsureCategory(ctx context.Context, name string) (models.RemoteCategory, error)
}

// PublishGateway pushes an assembled package to the backend.
type PublishGateway interface {
	Publish(ctx context.Context, pkg *models.ContentPackage, category models.RemoteCategory) (*models.PublishedPost, error)
}

// PinPublisher publishes one pin referencing a published post.
type PinPublisher interface {
	Publish(req models.PinRequest) (pin.State, error)
}

// RunLedger records runs and iteration outcomes. Ledger failures are logged
// and never interrupt the campaign.
type RunLedger interface {
	CreateRun(ctx context.Context, run *models.CampaignRun) error
	UpdateRun(ctx context.Context, run *models.CampaignRun) error
	AddIteration(ctx context.Context, rec *models.IterationRecord) error
}

// Orchestrator drives the campaign loop. Iteration failures are contained:
// a failed iteration records its outcome and the loop moves on.
type Orchestrator struct {
	campaign  models.Campaign
	pacingMin time.Duration
	pacingMax time.Duration

	assembler ContentAssembler
	resolver  CategoryResolver
	gateway   PublishGateway
	pins      PinPublisher
	ledger    RunLedger
	logger    *slog.Logger

	// sleep is overridable so tests run without real pacing delays.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates an orchestrator for one campaign.
func New(cfg config.CampaignConfig, assembler ContentAssembler, resolver CategoryResolver, gateway PublishGateway, pins PinPublisher, ledger RunLedger, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		campaign:  models.Campaign{Theme: cfg.Theme, Iterations: cfg.Iterations},
		pacingMin: cfg.PacingMin,
		pacingMax: cfg.PacingMax,
		assembler: assembler,
		resolver:  resolver,
		gateway:   gateway,
		pins:      pins,
		ledger:    ledger,
		logger:    logger.With(slog.String("component", "orchestrator")),
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

// Run executes the full campaign. The returned error reflects only
// run-level failures; individual iteration failures are recorded in the
// ledger and logged.
func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := o.logger.With(slog.String("run_id", runID))
	ctx = observability.ContextWithRunID(ctx, runID)

	run := &models.CampaignRun{
		RunID:     runID,
		Theme:     o.campaign.Theme,
		Requested: o.campaign.Iterations,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := o.ledger.CreateRun(ctx, run); err != nil {
		logger.Warn("recording run start failed", slog.String("error", err.Error()))
	}

	logger.Info("campaign started",
		slog.String("theme", o.campaign.Theme),
		slog.Int("iterations", o.campaign.Iterations),
	)

	for i := 1; i <= o.campaign.Iterations; i++ {
		if ctx.Err() != nil {
			logger.Warn("campaign cancelled", slog.Int("iteration", i))
			break
		}

		rec := o.runIteration(ctx, logger, i)
		rec.CampaignRunID = run.ID
		if err := o.ledger.AddIteration(ctx, rec); err != nil {
			logger.Warn("recording iteration failed", slog.String("error", err.Error()))
		}

		if rec.Status == models.IterationStatusPublished || rec.Status == models.IterationStatusPostOnly {
			run.Completed++
		}
		if rec.PinPublished {
			run.PinsPublished++
		}

		if i < o.campaign.Iterations {
			o.sleep(ctx, o.pacing())
		}
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	if ctx.Err() != nil {
		run.Status = models.RunStatusFailed
	}
	if err := o.ledger.UpdateRun(ctx, run); err != nil {
		logger.Warn("recording run finish failed", slog.String("error", err.Error()))
	}

	logger.Info("campaign finished",
		slog.Int("completed", run.Completed),
		slog.Int("pins_published", run.PinsPublished),
		slog.String("status", run.Status),
	)
	return ctx.Err()
}

// runIteration executes one iteration and returns its ledger record.
func (o *Orchestrator) runIteration(ctx context.Context, logger *slog.Logger, seq int) *models.IterationRecord {
	logger = logger.With(slog.Int("iteration", seq))
	rec := &models.IterationRecord{Sequence: seq}

	pkg, err := o.assembler.Assemble(ctx, o.campaign)
	if err != nil {
		logger.Warn("content assembly failed, skipping iteration", slog.String("error", err.Error()))
		rec.Status = models.IterationStatusSkipped
		rec.FailureReason = err.Error()
		return rec
	}
	rec.Title = pkg.Title.Text
	rec.IdeaCount = len(pkg.Items)

	category, err := o.resolver.EnsureCategory(ctx, o.campaign.Theme)
	if err != nil {
		logger.Warn("theme resolution failed, skipping iteration", slog.String("error", err.Error()))
		rec.Status = models.IterationStatusSkipped
		rec.FailureReason = err.Error()
		return rec
	}

	post, err := o.gateway.Publish(ctx, pkg, category)
	if err != nil {
		logger.Warn("post publish failed", slog.String("error", err.Error()))
		rec.Status = models.IterationStatusFailed
		rec.FailureReason = err.Error()
		return rec
	}
	rec.PostURL = post.PublicURL

	// Keyword generation is best effort; a pin without hashtags still
	// publishes.
	keywords, err := o.assembler.GenerateKeywords(ctx, post.Title, o.campaign.Theme)
	if err != nil {
		logger.Warn("keyword generation failed, publishing pin without hashtags", slog.String("error", err.Error()))
		keywords = ""
	}

	state, err := o.pins.Publish(models.PinRequest{
		Title:       post.Title,
		Description: post.MainDescription,
		Keywords:    keywords,
		ImagePath:   post.FeaturedImagePath,
		LinkURL:     post.PublicURL,
		BoardName:   o.campaign.Theme,
	})
	if err != nil {
		logger.Warn("pin publish failed, post remains live",
			slog.String("state", state.String()),
			slog.String("error", err.Error()),
		)
		rec.Status = models.IterationStatusPostOnly
		rec.FailureReason = err.Error()
		return rec
	}

	logger.Info("iteration published",
		slog.String("post_url", post.PublicURL),
		slog.String("pin_state", state.String()),
	)
	rec.Status = models.IterationStatusPublished
	rec.PinPublished = true
	return rec
}

// pacing picks a randomized pause between iterations.
func (o *Orchestrator) pacing() time.Duration {
	if o.pacingMax <= o.pacingMin {
		return o.pacingMin
	}
	return o.pacingMin + rand.N(o.pacingMax-o.pacingMin)
}
