// Package cli holds the shelfview command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/goliatone/go-shelfview/internal/config"
	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/prompt"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
)

// ErrNotInteractive is returned when a command needs an answer and stdin is
// not a terminal.
var ErrNotInteractive = errors.New("cli: stdin is not a terminal")

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithIO replaces the process streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		if in != nil {
			a.in = in
		}
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithPromptDriver swaps the survey prompts.
func WithPromptDriver(driver prompt.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) Option {
	return func(a *app) {
		a.interactive = func() bool { return interactive }
	}
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	driver      prompt.PromptDriver
	interactive func() bool
}

// NewRootCmd builds the shelfview command.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		v:      config.New(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.interactive == nil {
		a.interactive = a.stdinIsTerminal
	}

	cmd := &cobra.Command{
		Use:   "shelfview",
		Short: "Browse and manage a home library inventory",
		Long: `Shelfview is a front-end for the home library REST service.

It lists, filters, adds, edits, lends and returns books from the terminal,
an interactive browser (browse) or a web interface (serve).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.setup()
		},
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default ./config.yaml or $HOME/.shelfview/config.yaml)")
	flags.String("api-url", "", "Library REST service root, e.g. http://localhost:8080")
	flags.String("locale", "", "Interface language (en or ru)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	a.bind(config.KeyAPIURL, flags.Lookup("api-url"))
	a.bind(config.KeyUILocale, flags.Lookup("locale"))
	a.bind(config.KeyLogLevel, flags.Lookup("log-level"))

	cmd.AddCommand(
		newServeCmd(a),
		newBrowseCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newLendCmd(a),
		newReturnCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) stdinIsTerminal() bool {
	f, ok := a.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) client(logger api.Logger) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(a.cfg.API.Timeout),
		api.WithLogger(logger),
	}
	if a.cfg.API.Validate {
		opts = append(opts, api.WithContractValidation())
	}
	client, err := api.New(a.cfg.API.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return client, nil
}

func (a *app) renderOptions() (render.RenderOptions, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return render.RenderOptions{}, err
	}
	return render.RenderOptions{
		Locale:     a.cfg.UI.Locale,
		DateLayout: a.cfg.UI.DateLayout,
		Location:   loc,
	}, nil
}

// controllerOptions carries the configured delays and presentation settings.
func (a *app) controllerOptions(logger controller.Logger) ([]controller.Option, error) {
	opts, err := a.renderOptions()
	if err != nil {
		return nil, err
	}
	return []controller.Option{
		controller.WithRenderOptions(opts),
		controller.WithSearchDelay(a.cfg.UI.SearchDelay),
		controller.WithRemoveDelay(a.cfg.UI.RemoveDelay),
		controller.WithLogger(logger),
	}, nil
}

func (a *app) promptDriver() prompt.PromptDriver {
	if a.driver != nil {
		return a.driver
	}
	return prompt.NewSurveyDriver()
}

func (a *app) textOptions() []text.Option {
	return []text.Option{text.WithOutput(a.out)}
}

func (a *app) textRenderer() *text.Renderer {
	return text.New(a.textOptions()...)
}

// session runs one controller action against a Screen, the way the CLI
// commands use it.
type session struct {
	ctrl   *controller.Controller
	screen *controller.Screen
}

func (a *app) newSession(ctx context.Context, prompter controller.Prompter, fields *controller.Fields) (*session, error) {
	client, err := a.client(a.logger)
	if err != nil {
		return nil, err
	}
	base, err := a.controllerOptions(a.logger)
	if err != nil {
		return nil, err
	}
	screen := controller.NewScreen()
	opts := append(base,
		controller.WithView(screen),
		controller.WithNotifier(screen),
		controller.WithModals(screen),
		controller.WithPrompter(prompter),
		controller.WithContext(ctx),
	)
	if fields != nil {
		opts = append(opts, controller.WithInputs(fields))
	}
	ctrl, err := controller.New(client, opts...)
	if err != nil {
		return nil, err
	}
	return &session{ctrl: ctrl, screen: screen}, nil
}

// printNotices writes the messages the last action produced. On a terminal
// success messages go through the prompt driver, next to the prompts that
// led to them.
func (a *app) printNotices(ctx context.Context, s *session) {
	notices := s.screen.Notices()
	if a.interactive() {
		driver := a.promptDriver()
		rest := notices[:0]
		for _, notice := range notices {
			if notice.Kind != render.NoticeSuccess {
				rest = append(rest, notice)
				continue
			}
			if err := driver.Info(ctx, notice.Text); err != nil {
				a.logger.Debug("cli: show notice", "error", err)
				rest = append(rest, notice)
			}
		}
		notices = rest
	}
	if out := a.textRenderer().Notices(notices); out != "" {
		fmt.Fprintln(a.out, out)
	}
}

func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("cli: bind %s: %v", key, err))
	}
}
