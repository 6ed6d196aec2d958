package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bft-labs/flashrestart/internal/domain"
	"github.com/bft-labs/flashrestart/pkg/parfile"
	"github.com/bft-labs/flashrestart/pkg/restart"
)

func newScanCmd(c *cli) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the restart point found in the run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.restarter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if follow {
				return r.Follow(cmd.Context(), c.cfg.FollowDebounce, func(p restart.RestartPoint) error {
					_, err := fmt.Fprintln(out, p)
					return err
				})
			}
			p, err := r.Scan(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, p)
			return err
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "keep watching the log and print each new restart point")
	cmd.Flags().DurationVar(&c.cfg.FollowDebounce, "debounce", c.cfg.FollowDebounce, "quiet period after a log write before re-scanning")
	return cmd
}

func newRestartCmd(c *cli) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Point the parameter file at the last checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.restarter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				res, text, err := r.Plan(cmd.Context())
				if err != nil {
					return err
				}
				c.logger.Info("dry run, parameter file unchanged")
				fmt.Fprintf(out, "# %s\n", res.Point)
				_, err = io.WriteString(out, text)
				return err
			}
			res, err := r.Restart(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, res.Point)
			fmt.Fprintf(out, "backup: %s\n", res.Report.Backup)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rewritten parameter file instead of saving it")
	return cmd
}

func newSetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Rewrite parameter values",
		Long: strings.TrimSpace(`
Rewrite the values of existing parameters. Values are written as given, so
quote strings the way the parameter file expects, e.g. basenm='"sedov_"'.
Parameters missing from the file are skipped.`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(args)
			if err != nil {
				return err
			}
			r, err := c.restarter()
			if err != nil {
				return err
			}
			rep, err := r.Set(cmd.Context(), overrides)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range rep.Skipped() {
				fmt.Fprintf(out, "skipped: %s\n", k)
			}
			fmt.Fprintf(out, "backup: %s\n", rep.Backup)
			return nil
		},
	}
}

// parseOverrides turns key=value arguments into overrides. Values stay text.
func parseOverrides(args []string) (parfile.Overrides, error) {
	overrides := make(parfile.Overrides, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidConfig, arg)
		}
		if !parfile.ValidKey(k) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKey, k)
		}
		overrides[k] = strings.TrimSpace(v)
	}
	return overrides, nil
}

func newPruneCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove or archive old backups of the parameter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.restarter()
			if err != nil {
				return err
			}
			res, err := r.Prune(cmd.Context(), parfile.PruneOptions{
				Keep:    c.cfg.KeepBackups,
				Archive: c.cfg.ArchiveBackups,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range res.Removed {
				fmt.Fprintf(out, "removed: %s\n", p)
			}
			for _, p := range res.Archived {
				fmt.Fprintf(out, "archived: %s\n", p)
			}
			fmt.Fprintf(out, "freed %s\n", humanize.Bytes(uint64(max(res.Freed, 0))))
			return nil
		},
	}
	cmd.Flags().IntVar(&c.cfg.KeepBackups, "keep", c.cfg.KeepBackups, "number of newest backups to keep")
	cmd.Flags().BoolVar(&c.cfg.ArchiveBackups, "archive", c.cfg.ArchiveBackups, "compress old backups with zstd instead of deleting them")
	return cmd
}

func newHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the edits made to the parameter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.restarter()
			if err != nil {
				return err
			}
			entries, err := r.History(cmd.Context())
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), entries)
		},
	}
}

func writeHistory(w io.Writer, entries []domain.JournalEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tMODE\tCHANGE\tBACKUP")
	for _, e := range entries {
		change := strings.Join(e.Keys, ",")
		if e.Checkpoint != nil && e.Plot != nil {
			change = domain.RestartPoint{Checkpoint: *e.Checkpoint, Plot: *e.Plot}.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID.String()[:8], humanize.Time(e.At), e.Mode, change, e.Backup)
	}
	return tw.Flush()
}
