package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/diagfmt"
	"qmk2zmk/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] keymap.c...",
		Short: "Convert keymaps without printing the result",
		Long:  `Check converts every file on its own, in parallel, and reports diagnostics only`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	cmd.Flags().String("ui", "auto", "live progress view (auto|on|off)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	uiMode, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	showUI, err := wantProgressUI(uiMode, cmd.ErrOrStderr(), len(args), quiet)
	if err != nil {
		return err
	}

	var results []driver.CheckResult
	if showUI {
		results, err = runCheckWithUI(cmd, args, opts, jobs)
	} else {
		results, err = driver.Check(cmd.Context(), args, opts, jobs)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	prettyOpts := diagfmt.PrettyOpts{
		Color:     useColor(cmd, out),
		Context:   2,
		ShowNotes: true,
	}
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
		if r.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
			continue
		}
		r.Result.Bag.Sort()
		if quiet && format != "json" {
			// одна строка на файл: первая ошибка
			if first, ok := r.Result.Bag.First(diag.SevError); ok {
				fmt.Fprintf(out, "%s: %s %s\n", r.Path, first.Code.ID(), first.Message)
			} else if !r.OK() {
				fmt.Fprintf(out, "%s: failed\n", r.Path)
			}
			continue
		}
		bag := onlyErrors(r.Result.Bag, quiet)
		switch format {
		case "pretty":
			diagfmt.Pretty(out, bag, r.Result.FileSet, prettyOpts)
		case "short":
			diagfmt.Short(out, bag, r.Result.FileSet, prettyOpts)
		case "json":
			if err := diagfmt.JSON(out, bag, r.Result.FileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		}
		if format != "json" {
			printDropped(out, r.Result.Bag)
		}
		if r.Result.Timer != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n%s", r.Path, r.Result.Timer.Summary())
		}
	}

	if !quiet && format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d file(s), %d failed\n", len(results), failed)
	}
	if failed > 0 {
		return errDiagnostics
	}
	return nil
}
