package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/orchestrator"
)

func newListCmd(a *app) *cobra.Command {
	var state model.Filters
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered",
		Long: `Lists books with the summary counters and active filters.

Title, author and genre match substrings; status is either available or lent.`,
		Example: `  # Everything
  shelfview list

  # Lent books by Tolstoy
  shelfview list --author tolstoy --status lent

  # Full HTML page
  shelfview list --format html > books.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.Status != "" && !model.Status(state.Status).Valid() {
				return fmt.Errorf("invalid --status %q: use available or lent", state.Status)
			}

			sess, err := a.newSession(cmd.Context(), controller.FixedPrompter{}, controller.NewFields(state))
			if err != nil {
				return err
			}
			defer sess.ctrl.Close()

			loadErr := sess.ctrl.ApplyFilters(cmd.Context())

			current := sess.ctrl.State()
			page := sess.screen.Page()
			page.Filters = current
			page.Query = filters.Query(current)

			opts, err := a.renderOptions()
			if err != nil {
				return err
			}
			if format == "html" {
				format = "vanilla"
			}
			orch := orchestrator.New(orchestrator.WithTextOptions(a.textOptions()...))
			result, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Page:          page,
				Renderer:      format,
				RenderOptions: opts,
			})
			if err != nil {
				return err
			}
			if _, err := a.out.Write(result.Body); err != nil {
				return err
			}
			return loadErr
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&state.Title, "title", "", "Title contains")
	flags.StringVar(&state.Author, "author", "", "Author contains")
	flags.StringVar(&state.Status, "status", "", "available or lent")
	flags.StringVar(&state.Genre, "genre", "", "Genre contains")
	flags.StringVarP(&format, "format", "f", "text", "Output format: text or html")
	return cmd
}
