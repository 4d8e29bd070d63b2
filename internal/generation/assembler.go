package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/gosimple/slug"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/models"
)

// Assembly errors that abort the current iteration.
var (
	// ErrNoIdeas indicates every idea slot failed generation; an empty idea
	// set yields nothing worth publishing.
	ErrNoIdeas = errors.New("no ideas generated")

	// ErrNoFeaturedImage indicates the first idea's image could not be
	// rendered. Without a featured image there is no publishable post.
	ErrNoFeaturedImage = errors.New("featured image generation failed")
)

// leadChoices is the fixed set of numeric leads a title may start with.
var leadChoices = []int{3, 4, 5, 6, 7}

// ImageRenderer synthesizes an image for a prompt and returns encoded bytes.
type ImageRenderer interface {
	Render(ctx context.Context, prompt string) ([]byte, error)
}

// ImageStore persists a rendered image and returns its local path and the
// public URL it will be served from.
type ImageStore interface {
	Save(title string, index int, featured bool, data []byte) (path string, publicURL string, err error)
}

// Assembler orchestrates the generation backend into a ContentPackage:
// a title, a bounded set of idea/description pairs, a short description, and
// one image per idea.
type Assembler struct {
	chat     ChatClient
	renderer ImageRenderer
	store    ImageStore
	cfg      config.GenerationConfig
	logger   *slog.Logger

	// pickLead selects the numeric lead for a new title. Overridable in tests.
	pickLead func() int
}

// NewAssembler creates a content assembler.
func NewAssembler(chat ChatClient, renderer ImageRenderer, store ImageStore, cfg config.GenerationConfig, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		chat:     chat,
		renderer: renderer,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		pickLead: func() int { return leadChoices[rand.IntN(len(leadChoices))] },
	}
}

// GenerateTitle produces a styled title for the theme. The length constraint
// is best-effort: when every attempt exceeds the limit, the last raw title is
// returned and truncated downstream rather than failing the campaign.
func (a *Assembler) GenerateTitle(ctx context.Context, theme string) (models.TitleCandidate, error) {
	lead := a.pickLead()
	policy := Policy{MaxAttempts: a.cfg.TitleAttempts, AcceptLast: true}

	text, err := Retry(ctx, a.logger, policy, "generate_title",
		func(ctx context.Context) (string, error) {
			return a.chat.Complete(ctx, titlePrompt(theme, lead))
		},
		func(title string) bool {
			return len(title) <= a.cfg.TitleMaxLength
		},
	)
	if err != nil {
		return models.TitleCandidate{}, err
	}

	a.logger.Info("generated title", slog.String("title", text), slog.Int("numeric_lead", lead))
	return models.TitleCandidate{Text: text, NumericLead: ExtractNumericLead(text)}, nil
}

// GenerateIdeas produces one idea per numeric-lead slot. Each idea is
// requested independently so one failure cannot corrupt the set; a slot whose
// attempts are exhausted is dropped. Partial sets are acceptable.
func (a *Assembler) GenerateIdeas(ctx context.Context, title models.TitleCandidate) []models.Idea {
	total := title.NumericLead
	policy := Policy{MaxAttempts: a.cfg.IdeaAttempts}
	ideas := make([]models.Idea, 0, total)

	for i := 1; i <= total; i++ {
		idea, err := Retry(ctx, a.logger, policy, fmt.Sprintf("generate_idea_%d", i),
			func(ctx context.Context) (models.Idea, error) {
				text, err := a.chat.Complete(ctx, ideaPrompt(title.Text, i, total))
				if err != nil {
					return models.Idea{}, err
				}
				parsed, ok := ParseIdea(text, a.cfg.IdeaMinWords)
				if !ok {
					return models.Idea{}, fmt.Errorf("completion did not match the Idea/Description format")
				}
				return parsed, nil
			},
			func(models.Idea) bool { return true },
		)
		if err != nil {
			a.logger.Warn("dropping idea slot after exhausted attempts",
				slog.Int("slot", i),
				slog.Int("total", total),
				slog.String("error", err.Error()),
			)
			continue
		}
		ideas = append(ideas, idea)
	}

	return ideas
}

// GenerateDescription produces the post's short description, hard-truncated
// to the configured display budget.
func (a *Assembler) GenerateDescription(ctx context.Context, theme, title string) (string, error) {
	text, err := a.chat.Complete(ctx, descriptionPrompt(theme, title))
	if err != nil {
		return "", fmt.Errorf("generating description: %w", err)
	}
	if len(text) > a.cfg.DescriptionLimit {
		a.logger.Warn("description exceeds display budget, truncating",
			slog.Int("length", len(text)),
			slog.Int("limit", a.cfg.DescriptionLimit),
		)
		text = TruncateWithEllipsis(text, a.cfg.DescriptionLimit)
	}
	return text, nil
}

// GenerateKeywords produces SEO keyword hashtags for the pin description:
// 6 comma-separated keywords, each slugified into "#keyword" form.
func (a *Assembler) GenerateKeywords(ctx context.Context, title, theme string) (string, error) {
	text, err := a.chat.Complete(ctx, keywordsPrompt(title, theme))
	if err != nil {
		return "", fmt.Errorf("generating keywords: %w", err)
	}

	parts := strings.Split(text, ",")
	hashtags := make([]string, 0, len(parts))
	for _, part := range parts {
		s := slug.Make(strings.TrimSpace(part))
		if s == "" {
			continue
		}
		hashtags = append(hashtags, "#"+s)
	}
	return strings.Join(hashtags, ", "), nil
}

// Assemble builds the full content package for one campaign iteration.
// It aborts with ErrNoIdeas when no idea survives generation and with
// ErrNoFeaturedImage when the first idea's image cannot be rendered; a
// non-featured image failure only leaves that idea without an image.
func (a *Assembler) Assemble(ctx context.Context, campaign models.Campaign) (*models.ContentPackage, error) {
	title, err := a.GenerateTitle(ctx, campaign.Theme)
	if err != nil {
		return nil, fmt.Errorf("generating title: %w", err)
	}

	ideas := a.GenerateIdeas(ctx, title)
	if len(ideas) == 0 {
		return nil, ErrNoIdeas
	}

	description, err := a.GenerateDescription(ctx, campaign.Theme, title.Text)
	if err != nil {
		return nil, err
	}

	pkg := &models.ContentPackage{
		Title:           title,
		MainDescription: description,
		// The main description doubles as the meta description.
		MetaDescription: description,
	}

	for i, idea := range ideas {
		featured := i == 0
		item := models.PackageItem{Idea: idea, Featured: featured}

		data, err := a.renderer.Render(ctx, ImagePrompt(title.Text, idea.Headline, idea.Description))
		if err != nil {
			a.logger.Warn("image generation failed",
				slog.Int("idea", i+1),
				slog.Bool("featured", featured),
				slog.String("error", err.Error()),
			)
			if featured {
				return nil, fmt.Errorf("%w: %v", ErrNoFeaturedImage, err)
			}
			pkg.Items = append(pkg.Items, item)
			continue
		}

		path, publicURL, err := a.store.Save(title.Text, i+1, featured, data)
		if err != nil {
			a.logger.Warn("storing image failed",
				slog.Int("idea", i+1),
				slog.String("error", err.Error()),
			)
			if featured {
				return nil, fmt.Errorf("%w: %v", ErrNoFeaturedImage, err)
			}
			pkg.Items = append(pkg.Items, item)
			continue
		}

		item.ImagePath = path
		item.ImageURL = publicURL
		pkg.Items = append(pkg.Items, item)
	}

	return pkg, nil
}
