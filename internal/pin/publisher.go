package pin

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Levilaell/script-post-ai/internal/generation"
	"github.com/Levilaell/script-post-ai/internal/models"
)

// promotionalBoilerplate is appended to every pin description ahead of the
// keyword hashtags.
const promotionalBoilerplate = " Save these ideas now and make your dream living room a reality! "

// Session is the browser surface the publisher drives. Implemented by
// browser.Session; tests substitute a fake.
type Session interface {
	WaitVisible(selector string) error
	Click(selector string) error
	SendKeys(selector, text string) error
	Clear(selector string) error
	SetFiles(selector, path string) error
	ScrollIntoView(selector string) error
	Screenshot(name string)
	Pause(min, max time.Duration)
}

// Publisher runs the pin creation state machine over a live session. The
// session outlives individual publish attempts; a failed stage ends only the
// attempt it belongs to.
type Publisher struct {
	session    Session
	titleLimit int
	logger     *slog.Logger
}

// NewPublisher creates a pin publisher over an authenticated session.
func NewPublisher(session Session, titleLimit int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		session:    session,
		titleLimit: titleLimit,
		logger:     logger.With(slog.String("component", "pin")),
	}
}

// Publish drives one pin through the full workflow and returns the terminal
// state reached. StatePublished with a nil error is the only full success; a
// publish-confirmation timeout still counts as published.
func (p *Publisher) Publish(req models.PinRequest) (State, error) {
	if req.ImagePath == "" {
		return StateLoggedIn, &StageError{Target: StateImageUploaded, Err: fmt.Errorf("no image path provided")}
	}
	if _, err := os.Stat(req.ImagePath); err != nil {
		return StateLoggedIn, &StageError{Target: StateImageUploaded, Err: fmt.Errorf("image path not accessible: %w", err)}
	}

	stages := []struct {
		target     State
		screenshot string
		run        func(models.PinRequest) error
	}{
		{StateCreateMenuOpen, "create_button_error", p.openCreateMenu},
		{StatePinBuilderOpen, "create_pin_button_error", p.openPinBuilder},
		{StateImageUploaded, "image_upload_error", p.uploadImage},
		{StateDetailsFilled, "insert_details_error", p.fillDetails},
		{StateBoardSelected, "select_board_error", p.selectBoard},
		{StatePublished, "publish_error", p.clickPublish},
	}

	state := StateLoggedIn
	for _, stage := range stages {
		p.logger.Debug("entering stage", slog.String("target", stage.target.String()))
		if err := stage.run(req); err != nil {
			p.logger.Warn("stage failed",
				slog.String("target", stage.target.String()),
				slog.String("error", err.Error()),
			)
			p.session.Screenshot(stage.screenshot)
			return state, &StageError{Target: stage.target, Err: err}
		}
		state = stage.target
	}

	p.logger.Info("pin published", slog.String("title", req.Title))
	return state, nil
}

func (p *Publisher) openCreateMenu(models.PinRequest) error {
	if err := p.session.Click(selectorCreateMenu); err != nil {
		return err
	}
	p.session.Pause(2*time.Second, 4*time.Second)
	return nil
}

func (p *Publisher) openPinBuilder(models.PinRequest) error {
	if err := p.session.Click(selectorPinBuilder); err != nil {
		return err
	}
	p.session.Pause(2*time.Second, 4*time.Second)
	return nil
}

func (p *Publisher) uploadImage(req models.PinRequest) error {
	if err := p.session.SetFiles(selectorFileInput, req.ImagePath); err != nil {
		return err
	}
	p.session.Pause(2*time.Second, 4*time.Second)
	return nil
}

// fillDetails inserts title, description and destination link. The title is
// truncated again here because the stored title may be a raw over-length
// generation that only best-effort retries produced.
func (p *Publisher) fillDetails(req models.PinRequest) error {
	title := generation.TruncateWithEllipsis(req.Title, p.titleLimit)
	if err := p.session.SendKeys(selectorTitleInput, title); err != nil {
		return fmt.Errorf("inserting title: %w", err)
	}
	p.session.Pause(1*time.Second, 3*time.Second)

	description := req.Description + promotionalBoilerplate + req.Keywords
	if err := p.session.Click(selectorDescriptionInput); err != nil {
		return fmt.Errorf("focusing description: %w", err)
	}
	if err := p.session.SendKeys(selectorDescriptionInput, description); err != nil {
		return fmt.Errorf("inserting description: %w", err)
	}
	p.session.Pause(1*time.Second, 3*time.Second)

	// The link field can sit below the fold.
	if err := p.session.ScrollIntoView(selectorLinkInput); err != nil {
		return fmt.Errorf("scrolling to link field: %w", err)
	}
	if err := p.session.SendKeys(selectorLinkInput, req.LinkURL); err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}
	p.session.Pause(1*time.Second, 3*time.Second)
	return nil
}

// selectBoard searches the board list for the request's board name and clicks
// the case-insensitive match. When no board appears within the wait, the
// create-board sub-flow runs instead.
func (p *Publisher) selectBoard(req models.PinRequest) error {
	if err := p.session.Click(selectorBoardDropdown); err != nil {
		return fmt.Errorf("opening board dropdown: %w", err)
	}
	p.session.Pause(1*time.Second, 2*time.Second)

	if err := p.session.SendKeys(selectorBoardSearch, req.BoardName); err != nil {
		return fmt.Errorf("searching boards: %w", err)
	}
	p.session.Pause(1*time.Second, 2*time.Second)

	if err := p.session.Click(boardOption(req.BoardName)); err == nil {
		p.logger.Info("board selected", slog.String("board", req.BoardName))
		p.session.Pause(1*time.Second, 2*time.Second)
		return nil
	}

	p.logger.Info("board not found, creating", slog.String("board", req.BoardName))
	return p.createBoard(req.BoardName)
}

// createBoard runs the create-board sub-flow. The name field is cleared but
// the board name is never typed before confirming, so the new board keeps the
// platform's prefilled name.
// TODO: confirm with product whether the board should be created under the
// campaign theme name instead of the prefilled one.
func (p *Publisher) createBoard(name string) error {
	if err := p.session.Click(selectorCreateBoard); err != nil {
		return fmt.Errorf("opening create-board flow: %w", err)
	}
	p.session.Pause(1*time.Second, 2*time.Second)

	if err := p.session.Clear(selectorBoardNameInput); err != nil {
		return fmt.Errorf("clearing board name: %w", err)
	}
	p.session.Pause(1*time.Second, 2*time.Second)

	if err := p.session.Click(selectorBoardFormSubmit); err != nil {
		return fmt.Errorf("confirming board creation: %w", err)
	}
	p.logger.Info("board created", slog.String("board", name))
	p.session.Pause(2*time.Second, 3*time.Second)
	return nil
}

// clickPublish presses publish and waits for the confirmation modal. A
// missing confirmation is a soft success: the publish click went through and
// only the confirmation detection failed.
func (p *Publisher) clickPublish(models.PinRequest) error {
	if err := p.session.ScrollIntoView(selectorPublishButton); err != nil {
		return fmt.Errorf("scrolling to publish button: %w", err)
	}
	p.session.Pause(1*time.Second, 2*time.Second)

	if err := p.session.Click(selectorPublishButton); err != nil {
		return fmt.Errorf("clicking publish: %w", err)
	}
	p.session.Pause(7*time.Second, 8*time.Second)

	if err := p.session.Click(selectorConfirmationClose); err != nil {
		p.logger.Info("publish confirmation not detected, assuming success")
		p.session.Screenshot("publish_no_success_message")
		return nil
	}
	p.session.Pause(1*time.Second, 2*time.Second)
	return nil
}
