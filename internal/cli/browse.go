package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-shelfview/internal/config"
	"github.com/goliatone/go-shelfview/internal/tui"
	"github.com/goliatone/go-shelfview/internal/webui"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Starts the Shelfview web interface.

Every page is rendered on the server; filters live in the query string so
filtered views can be bookmarked.`,
		Example: `  # Serve on the configured address (default :8081)
  shelfview serve

  # Serve on a custom address against a remote backend
  shelfview serve --addr :3000 --api-url http://library.local:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(a.logger)
			if err != nil {
				return err
			}
			opts, err := a.renderOptions()
			if err != nil {
				return err
			}
			srv, err := webui.New(client,
				webui.WithLogger(a.logger),
				webui.WithRenderOptions(opts),
				webui.WithGenres(a.cfg.UI.Genres),
			)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), a.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "Address to listen on (default :8081)")
	a.bind(config.KeyServerAddr, cmd.Flags().Lookup("addr"))
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the library in an interactive terminal view",
		Long: `Opens a full-screen view with live search, filters and per-book actions.

Title and author searches reload after a short pause in typing; status and
genre apply at once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return ErrNotInteractive
			}
			// Log lines would tear the full-screen view.
			logger := slog.New(slog.DiscardHandler)
			client, err := a.client(logger)
			if err != nil {
				return err
			}
			opts, err := a.controllerOptions(logger)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Config{
				Books:             client,
				Logger:            logger,
				Genres:            a.cfg.UI.Genres,
				ControllerOptions: opts,
				Input:             a.in,
				Output:            a.out,
			})
		},
	}
}
