package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"attendify/internal/app"
	"attendify/internal/attendance"
	"attendify/internal/config"
	"attendify/internal/logging"
	"attendify/internal/view"
)

func main() {
	s := &session{}
	err := newRootCmd(s).Execute()
	if cerr := s.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "close store:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// session holds the app built for one invocation. Close runs whether or
// not the command succeeded.
type session struct {
	app *app.App
}

func (s *session) get() *app.App { return s.app }

func (s *session) Close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:          "attendctl",
		Short:        "Manage attendance records from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			built, err := app.Build(cmd.Context(), cfg, logging.New(cfg.Env, cfg.LogLevel))
			if err != nil {
				return err
			}
			s.app = built
			return nil
		},
	}
	root.SetContext(context.Background())

	root.AddCommand(
		newAddCmd(s.get),
		newListCmd(s.get),
		newRemoveCmd(s.get),
		newStatsCmd(s.get),
		newSummaryCmd(s.get),
	)
	return root
}

func newAddCmd(get func() *app.App) *cobra.Command {
	var d attendance.Draft
	var status string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an attendance record",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if status != "" {
				st, err := attendance.ParseStatus(status)
				if err != nil {
					return fmt.Errorf("%w: %q", err, status)
				}
				d.Status = st
			}
			rec, err := a.Form.Submit(cmd.Context(), a.Form.Fill(d))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&d.Name, "name", "", "Employee name (required)")
	cmd.Flags().StringVar(&d.Date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&d.InTime, "in", "", "In time HH:MM (default 09:00)")
	cmd.Flags().StringVar(&d.OutTime, "out", "", "Out time HH:MM (default 18:00)")
	cmd.Flags().StringVar(&status, "status", "", "Present, Late, Leave or Others (default Present)")
	cmd.Flags().StringVar(&d.Remarks, "remarks", "", "Free-text remarks")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd(get func() *app.App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := get().Store.Records()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newRemoveCmd(get func() *app.App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().Controller.Delete(cmd.Context(), args[0], yes); err != nil {
				if errors.Is(err, view.ErrConfirmationRequired) {
					return fmt.Errorf("refusing to delete %s without --yes", args[0])
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func newStatsCmd(get func() *app.App) *cobra.Command {
	var window int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show status counts and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := attendance.BuildOverview(get().Store.Records(), window)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total Records: %d\nPresent: %d\nLate Entries: %d\nOn Leave: %d\n",
				ov.Stats.Total, ov.Stats.Present, ov.Stats.Late, ov.Stats.OnLeave)
			if len(ov.Activity) > 0 {
				fmt.Fprintln(out, "\nRecent activity:")
				for _, d := range ov.Activity {
					fmt.Fprintf(out, "  %s  %d\n", d.Date, d.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", attendance.DefaultActivityWindow, "Number of recent dates")
	return cmd
}

func newSummaryCmd(get func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Ask the AI model for an executive summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			records := a.Store.Records()
			if len(records) == 0 {
				return errors.New("add some records first for the AI to analyze")
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Summarizer.Summarize(cmd.Context(), records))
			return nil
		},
	}
}

func printRecords(w io.Writer, records []attendance.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attendance records found. Add one to get started.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tIN / OUT\tSTATUS\tREMARKS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s -> %s\t%s\t%s\n", r.ID, r.Name, r.Date, r.InTime, r.OutTime, r.Status, r.Remarks)
	}
	_ = tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
