package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/prompt"
	"github.com/goliatone/go-shelfview/pkg/render"
)

func newAddCmd(a *app) *cobra.Command {
	var form model.CreateForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Long: `Adds a book to the library. New books are available and filed in row 1.

On a terminal, missing required fields are asked for interactively.`,
		Example: `  shelfview add --title "Dune" --author "Frank Herbert" --room Study --cabinet 1 --shelf 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.completeAddForm(ctx, &form); err != nil {
				return err
			}
			sess, err := a.newSession(ctx, controller.FixedPrompter{}, nil)
			if err != nil {
				return err
			}
			defer sess.ctrl.Close()

			err = sess.ctrl.AddBook(ctx, form)
			a.printNotices(ctx, sess)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Title, "title", "", "Title (required)")
	flags.StringVar(&form.Author, "author", "", "Author (required)")
	flags.StringVar(&form.Genre, "genre", "", "Genre")
	flags.StringVar(&form.Description, "description", "", "Description, may contain basic HTML")
	flags.StringVar(&form.Room, "room", "", "Room (required)")
	flags.StringVar(&form.Cabinet, "cabinet", "", "Cabinet number (required)")
	flags.StringVar(&form.Shelf, "shelf", "", "Shelf number (required)")
	return cmd
}

type formPrompt struct {
	flag     string
	label    string
	value    *string
	def       string
	validate  func(string) error
	multiline bool
}

func (a *app) completeAddForm(ctx context.Context, form *model.CreateForm) error {
	loc, err := a.localizer()
	if err != nil {
		return err
	}
	required := []formPrompt{
		{flag: "title", label: loc.Text("form.title"), value: &form.Title},
		{flag: "author", label: loc.Text("form.author"), value: &form.Author},
		{flag: "room", label: loc.Text("form.room"), value: &form.Room},
		{flag: "cabinet", label: loc.Text("form.cabinet"), value: &form.Cabinet, def: "1", validate: positiveNumber},
		{flag: "shelf", label: loc.Text("form.shelf"), value: &form.Shelf, def: "1", validate: positiveNumber},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(*field.value) == "" {
			missing = append(missing, "--"+field.flag)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if !a.interactive() {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	driver := a.promptDriver()
	for _, field := range required {
		if strings.TrimSpace(*field.value) != "" {
			continue
		}
		answer, err := driver.Input(ctx, prompt.InputConfig{
			Message:   field.label,
			Default:   field.def,
			Required:  true,
			Validator: field.validate,
		})
		if err != nil {
			return err
		}
		*field.value = strings.TrimSpace(answer)
	}
	return nil
}

func newEditCmd(a *app) *cobra.Command {
	var values model.EditForm

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a book",
		Long: `Updates a book. Only the fields passed as flags change.

Without flags, on a terminal, every field is asked for with its current
value as the default. Setting the status to available clears the borrower.`,
		Example: `  shelfview edit 7 --shelf 3
  shelfview edit 7 --status lent --lent-to "Ivanov Ivan"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := a.newSession(ctx, controller.FixedPrompter{}, nil)
			if err != nil {
				return err
			}
			defer sess.ctrl.Close()

			if err := sess.ctrl.EditBook(ctx, id); err != nil {
				a.printNotices(ctx, sess)
				return err
			}
			page := sess.screen.Page()
			if page.Edit == nil {
				return fmt.Errorf("book %d: edit form not loaded", id)
			}
			form := page.Edit.Form

			if !applyEditFlags(cmd, values, &form) {
				if !a.interactive() {
					return errors.New("nothing to change: pass at least one field flag")
				}
				if err := a.promptEditForm(ctx, &form); err != nil {
					return err
				}
			}

			sess.ctrl.StatusChanged(form.Status)
			err = sess.ctrl.SaveBookChanges(ctx, form)
			if page := sess.screen.Page(); page.Edit != nil && page.Edit.Error != "" {
				fmt.Fprintln(a.out, a.textRenderer().Styles().FormError.Render(page.Edit.Error))
			}
			a.printNotices(ctx, sess)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&values.Title, "title", "", "Title")
	flags.StringVar(&values.Author, "author", "", "Author")
	flags.StringVar(&values.Genre, "genre", "", "Genre")
	flags.StringVar(&values.Description, "description", "", "Description")
	flags.StringVar(&values.Room, "room", "", "Room")
	flags.StringVar(&values.Cabinet, "cabinet", "", "Cabinet number")
	flags.StringVar(&values.Shelf, "shelf", "", "Shelf number")
	flags.StringVar(&values.Status, "status", "", "available or lent")
	flags.StringVar(&values.LentTo, "lent-to", "", "Borrower, kept only while lent")
	return cmd
}

// applyEditFlags copies the flags the user set onto form and reports whether
// there were any.
func applyEditFlags(cmd *cobra.Command, values model.EditForm, form *model.EditForm) bool {
	targets := map[string]struct {
		dst *string
		src string
	}{
		"title":       {&form.Title, values.Title},
		"author":      {&form.Author, values.Author},
		"genre":       {&form.Genre, values.Genre},
		"description": {&form.Description, values.Description},
		"room":        {&form.Room, values.Room},
		"cabinet":     {&form.Cabinet, values.Cabinet},
		"shelf":       {&form.Shelf, values.Shelf},
		"status":      {&form.Status, values.Status},
		"lent-to":     {&form.LentTo, values.LentTo},
	}
	changed := false
	for name, target := range targets {
		if cmd.Flags().Changed(name) {
			*target.dst = target.src
			changed = true
		}
	}
	return changed
}

func (a *app) promptEditForm(ctx context.Context, form *model.EditForm) error {
	loc, err := a.localizer()
	if err != nil {
		return err
	}
	driver := a.promptDriver()

	fields := []formPrompt{
		{label: loc.Text("form.title"), value: &form.Title},
		{label: loc.Text("form.author"), value: &form.Author},
		{label: loc.Text("form.genre"), value: &form.Genre},
		{label: loc.Text("form.description"), value: &form.Description, multiline: true},
		{label: loc.Text("form.room"), value: &form.Room},
		{label: loc.Text("form.cabinet"), value: &form.Cabinet, validate: positiveNumber},
		{label: loc.Text("form.shelf"), value: &form.Shelf, validate: positiveNumber},
	}
	for _, field := range fields {
		var answer string
		if field.multiline {
			answer, err = driver.TextArea(ctx, prompt.TextAreaConfig{
				Message: field.label,
				Default: *field.value,
			})
		} else {
			answer, err = driver.Input(ctx, prompt.InputConfig{
				Message:   field.label,
				Default:   *field.value,
				Validator: field.validate,
			})
		}
		if err != nil {
			return err
		}
		*field.value = strings.TrimSpace(answer)
	}

	statuses := []string{string(model.StatusAvailable), string(model.StatusLent)}
	labels := make([]string, len(statuses))
	current := 0
	for i, status := range statuses {
		labels[i] = filters.StatusLabel(status, loc)
		if status == form.Status {
			current = i
		}
	}
	idx, err := driver.Select(ctx, prompt.SelectConfig{
		Message:      loc.Text("form.status"),
		Options:      labels,
		DefaultIndex: current,
	})
	if err != nil {
		return err
	}
	form.Status = statuses[idx]

	if form.LentSectionVisible() {
		answer, err := driver.Input(ctx, prompt.InputConfig{
			Message: loc.Text("form.lent_to"),
			Default: form.LentTo,
		})
		if err != nil {
			return err
		}
		form.LentTo = strings.TrimSpace(answer)
	}
	return nil
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			prompter, err := a.confirmPrompter(yes)
			if err != nil {
				return err
			}
			return a.runAction(cmd.Context(), prompter, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.DeleteBook(ctx, id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newLendCmd(a *app) *cobra.Command {
	var borrower string

	cmd := &cobra.Command{
		Use:   "lend <id>",
		Short: "Lend a book",
		Long: `Marks an available book as lent. Without --to, the borrower is asked
for on a terminal.`,
		Example: `  shelfview lend 3 --to "Ivanov Ivan"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var prompter controller.Prompter
			switch {
			case strings.TrimSpace(borrower) != "":
				prompter = controller.FixedPrompter{Answer: borrower}
			case a.interactive():
				prompter = prompt.NewPrompter(a.promptDriver())
			default:
				return fmt.Errorf("%w: pass --to", ErrNotInteractive)
			}
			return a.runAction(cmd.Context(), prompter, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.LendBook(ctx, id)
			})
		},
	}
	cmd.Flags().StringVar(&borrower, "to", "", "Borrower name")
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "return <id>",
		Short: "Mark a lent book as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			prompter, err := a.confirmPrompter(yes)
			if err != nil {
				return err
			}
			return a.runAction(cmd.Context(), prompter, func(ctx context.Context, ctrl *controller.Controller) error {
				return ctrl.ReturnBook(ctx, id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) runAction(ctx context.Context, prompter controller.Prompter, action func(context.Context, *controller.Controller) error) error {
	sess, err := a.newSession(ctx, prompter, nil)
	if err != nil {
		return err
	}
	defer sess.ctrl.Close()

	err = action(ctx, sess.ctrl)
	a.printNotices(ctx, sess)
	return err
}

func (a *app) confirmPrompter(yes bool) (controller.Prompter, error) {
	if !yes && !a.interactive() {
		return nil, fmt.Errorf("%w: pass --yes to confirm", ErrNotInteractive)
	}
	p := prompt.NewPrompter(a.driver)
	p.AssumeYes = yes
	return p, nil
}

func (a *app) localizer() (render.Localizer, error) {
	opts, err := a.renderOptions()
	if err != nil {
		return render.Localizer{}, err
	}
	return opts.Localizer(), nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", raw)
	}
	return id, nil
}

func positiveNumber(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}
