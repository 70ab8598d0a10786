package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
)

// Config wires the browse screen.
type Config struct {
	Books  controller.BookService
	Logger controller.Logger
	// Genres seeds the genre selector; genres of loaded books are added.
	Genres []string
	// ControllerOptions are applied after the screen's own ports.
	ControllerOptions []controller.Option
	Input             io.Reader
	Output            io.Writer
	// StaticCursor turns off cursor blinking.
	StaticCursor bool
}

// Run shows the browse screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.ctrl.Close()

	var opts []tea.ProgramOption
	opts = append(opts, tea.WithContext(ctx), tea.WithAltScreen())
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func build(ctx context.Context, cfg Config) (Model, error) {
	b := newBridge(ctx, 64)
	fields := controller.NewFields(model.Filters{})

	opts := []controller.Option{
		controller.WithView(b),
		controller.WithNotifier(b),
		controller.WithModals(b),
		controller.WithPrompter(b),
		controller.WithInputs(fields),
		controller.WithContext(ctx),
	}
	if cfg.Logger != nil {
		opts = append(opts, controller.WithLogger(cfg.Logger))
	}
	ctrl, err := controller.New(cfg.Books, append(opts, cfg.ControllerOptions...)...)
	if err != nil {
		return Model{}, err
	}

	mode := cursor.CursorBlink
	if cfg.StaticCursor {
		mode = cursor.CursorStatic
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return newModel(ctx, ctrl, fields, b, text.New(text.WithOutput(out)), cfg.Genres, mode), nil
}
