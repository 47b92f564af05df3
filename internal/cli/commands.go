package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"walletmate/internal/category"
	"walletmate/internal/config"
	"walletmate/internal/core"
	applog "walletmate/internal/log"
	"walletmate/internal/services"
	"walletmate/internal/settings"
)

const dateLayout = "2006-01-02"

// ConfigLoader supplies the validated configuration for a command run.
type ConfigLoader func() (*config.Config, error)

// EnvConfig loads .env and the environment, then validates the result.
func EnvConfig() (*config.Config, error) {
	LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRootCommand builds the walletmate-cli command tree. The app is opened
// lazily before each subcommand runs and closed afterwards.
func NewRootCommand(load ConfigLoader) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "walletmate-cli",
		Short:         "Record transactions and inspect monthly statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			// stdout is reserved for command output
			logger := setupLogger(cfg, applog.ComponentCLI, cmd.ErrOrStderr())
			app, err = NewApp(cmd.Context(), cfg, logger)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
	}

	get := func() *App { return app }
	root.AddCommand(
		newAddCommand(get),
		newListCommand(get),
		newEditCommand(get),
		newDeleteCommand(get),
		newClearCommand(get),
		newStatsCommand(get),
		newExportCommand(get),
		newThemeCommand(get),
		newCategoriesCommand(get),
	)
	return root
}

// ExecuteCommand runs root with args and returns everything written to
// stdout and stderr.
func ExecuteCommand(ctx context.Context, root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

type appFunc func() *App

type txFlags struct {
	kind     string
	amount   string
	category string
	note     string
	date     string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 1,234.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category code")
	cmd.Flags().StringVarP(&f.note, "note", "n", "", "note (defaults to the category label)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as YYYY-MM-DD (defaults to today)")
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func newAddCommand(app appFunc) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			kind, err := core.ParseKind(f.kind)
			if err != nil {
				return err
			}
			date, err := parseDate(f.date, a.Location)
			if err != nil {
				return err
			}
			tx, err := a.Transactions.Create(cmd.Context(), services.TransactionInput{
				Amount:   f.amount,
				Kind:     kind,
				Category: f.category,
				Note:     f.note,
				Date:     date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", tx.ID, signedCurrency(tx.Amount))
			return nil
		},
	}
	f.register(cmd)
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("category")
	return cmd
}

func newListCommand(app appFunc) *cobra.Command {
	var kind, cat, from, to, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			f := core.Filter{Category: cat, Query: search}
			if kind != "" && kind != "all" {
				k, err := core.ParseKind(kind)
				if err != nil {
					return err
				}
				f.Kind = k
			}
			start, err := parseDate(from, a.Location)
			if err != nil {
				return err
			}
			end, err := parseDate(to, a.Location)
			if err != nil {
				return err
			}
			f.Start = start
			if !end.IsZero() {
				f.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}

			txs := a.Transactions.List(f)
			if len(txs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			for _, t := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date.In(a.Location).Format(dateLayout), signedCurrency(t.Amount),
					a.Categories.Label(t.Category), t.Note)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "all", "all, income or expense")
	cmd.Flags().StringVarP(&cat, "category", "c", "", "category code")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&search, "search", "s", "", "text matched against note and amount")
	return cmd
}

func newEditCommand(app appFunc) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			cur, ok := a.Transactions.Get(args[0])
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction %s\n", args[0])
				return nil
			}

			in := services.TransactionInput{
				Amount:   strconv.FormatFloat(math.Abs(cur.Amount), 'f', -1, 64),
				Kind:     cur.Kind(),
				Category: cur.Category,
				Note:     cur.Note,
				Date:     cur.Date,
			}
			flags := cmd.Flags()
			if flags.Changed("type") {
				k, err := core.ParseKind(f.kind)
				if err != nil {
					return err
				}
				in.Kind = k
			}
			if flags.Changed("amount") {
				in.Amount = f.amount
			}
			if flags.Changed("category") {
				in.Category = f.category
			}
			if flags.Changed("note") {
				in.Note = f.note
			}
			if flags.Changed("date") {
				d, err := parseDate(f.date, a.Location)
				if err != nil {
					return err
				}
				in.Date = d
			}

			tx, updated, err := a.Transactions.Update(cmd.Context(), cur.ID, in)
			if err != nil {
				return err
			}
			if !updated {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction %s\n", cur.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", tx.ID, signedCurrency(tx.Amount))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app().Transactions.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction %s\n", args[0])
			}
			return nil
		},
	}
}

func newClearCommand(app appFunc) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all transactions without --yes")
			}
			if err := app().Transactions.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All transactions deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func newStatsCommand(app appFunc) *cobra.Command {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated statistics",
	}

	var date string
	month := &cobra.Command{
		Use:   "month",
		Short: "Totals and expenses by category for one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ref := time.Now().In(a.Location)
			if date != "" {
				d, err := parseDate(date, a.Location)
				if err != nil {
					return err
				}
				ref = d
			}
			writeMonthStats(cmd.OutOrStdout(), a, a.Stats.Month(ref))
			return nil
		},
	}
	month.Flags().StringVarP(&date, "date", "d", "", "any day of the month, YYYY-MM-DD (defaults to today)")

	var year int
	yearCmd := &cobra.Command{
		Use:   "year",
		Short: "Monthly income and expenses for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			y := year
			if y == 0 {
				y = time.Now().In(a.Location).Year()
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', tabwriter.AlignRight)
			for _, p := range a.Stats.Year(y) {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.Name, core.FormatCurrency(p.Income), core.FormatCurrency(math.Abs(p.Expenses)))
			}
			return w.Flush()
		},
	}
	yearCmd.Flags().IntVarP(&year, "year", "y", 0, "calendar year (defaults to the current one)")

	stats.AddCommand(month, yearCmd)
	return stats
}

func writeMonthStats(out io.Writer, a *App, m services.MonthStats) {
	fmt.Fprintf(out, "%s %d\n", category.MonthName(a.Categories.Locale(), m.Month-1), m.Year)
	fmt.Fprintf(out, "Income:   %s\n", core.FormatCurrency(m.Summary.Income))
	fmt.Fprintf(out, "Expenses: %s\n", core.FormatCurrency(math.Abs(m.Summary.Expenses)))
	fmt.Fprintf(out, "Balance:  %s\n", core.FormatCurrency(m.Summary.Balance))
	if len(m.Categories) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	for _, c := range m.Categories {
		fmt.Fprintf(w, "  %s\t%s\n", c.Label, c.Display)
	}
	w.Flush()
}

func newExportCommand(app appFunc) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			t, err := a.ExportTarget(cmd.Context(), target)
			if err != nil {
				return err
			}
			ref, err := a.Transactions.Export(cmd.Context(), t, a.ExportOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "file", "file or sheets")
	return cmd
}

func newThemeCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := app().Preferences
			ctx := cmd.Context()

			var (
				th  settings.Theme
				err error
			)
			switch {
			case len(args) == 0:
				th, err = prefs.Theme(ctx)
			case args[0] == "toggle":
				th, err = prefs.ToggleTheme(ctx)
			default:
				th, err = settings.ParseTheme(args[0])
				if err == nil {
					err = prefs.SetTheme(ctx, th)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), th)
			return nil
		},
	}
}

func newCategoriesCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List category codes and labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			for _, c := range app().Categories.All() {
				fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Label)
			}
			return w.Flush()
		},
	}
}

// signedCurrency renders income with a leading "+" and expenses with "-".
func signedCurrency(amount float64) string {
	if amount < 0 {
		return "-" + core.FormatCurrency(-amount)
	}
	return "+" + core.FormatCurrency(amount)
}
