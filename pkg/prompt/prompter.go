package prompt

import (
	"context"
	"errors"
	"strings"
)

// Prompter answers the confirm and input dialogs of the inventory
// controller from a PromptDriver.
type Prompter struct {
	driver PromptDriver
	// AssumeYes answers every confirmation with yes without asking.
	AssumeYes bool
}

// NewPrompter wraps driver, defaulting to the survey driver.
func NewPrompter(driver PromptDriver) *Prompter {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Prompter{driver: driver}
}

// Driver exposes the wrapped driver for flows that need richer prompts.
func (p *Prompter) Driver() PromptDriver {
	return p.driver
}

// Confirm asks a yes/no question. Aborting counts as "no".
func (p *Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	ok, err := p.driver.Confirm(ctx, ConfirmConfig{Message: message})
	if errors.Is(err, ErrAborted) {
		return false, nil
	}
	return ok, err
}

// Input asks for a single line, pre-filled with defaultValue. Aborting yields
// an empty answer.
func (p *Prompter) Input(ctx context.Context, message, defaultValue string) (string, error) {
	value, err := p.driver.Input(ctx, InputConfig{Message: message, Default: defaultValue})
	if errors.Is(err, ErrAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
