package pin

import (
	"fmt"
	"strings"
)

// Element locators for the pin creation UI. The platform ships no API for
// this flow, so everything below is tied to rendered page structure and
// stable test attributes. Version fragility is confined to this file.
const (
	selectorCreateMenu = `//div[@data-test-id='dynamic-menu-controller']/parent::div[@role='button']`
	selectorPinBuilder = `a[href='/pin-builder/']`
	selectorFileInput  = `//input[@type='file']`

	selectorTitleInput       = `//textarea[@placeholder='Add your title']`
	selectorDescriptionInput = `//div[starts-with(@data-test-id, 'pin-draft-description')]//div[@role='combobox']`
	selectorLinkInput        = `//div[@data-test-id='pin-draft-link']//textarea[@placeholder='Add a destination link']`

	selectorBoardDropdown     = `//button[@data-test-id='board-dropdown-select-button']`
	selectorBoardSearch       = `//input[contains(@placeholder, 'Search')]`
	selectorCreateBoard       = `//div[@data-test-id='create-board']`
	selectorBoardNameInput    = `//input[@id='boardEditName']`
	selectorBoardFormSubmit   = `//button[@data-test-id='board-form-submit-button']`
	selectorPublishButton     = `//button[@data-test-id='board-dropdown-save-button' and .//div[text()='Publish']]`
	selectorConfirmationClose = `//button[@aria-label='dismiss']`
)

// boardOption builds the locator for a board whose label matches the name
// case-insensitively. The lowering happens inside the XPath so the comparison
// uses the label as rendered, not a normalized copy.
func boardOption(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return fmt.Sprintf(
		"//div[@data-test-id='boardWithoutSection']//div[@role='button' and "+
			"descendant::div[normalize-space(translate(text(), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'))='%s']]",
		normalized,
	)
}
