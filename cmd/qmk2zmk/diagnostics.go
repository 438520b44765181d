package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/diagfmt"
	"qmk2zmk/internal/driver"
)

// reportResult prints the diagnostics and timings of res to stderr and
// returns errDiagnostics when res failed.
func reportResult(cmd *cobra.Command, res *driver.Result) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	errOut := cmd.ErrOrStderr()

	res.Bag.Sort()
	if res.Bag.HasErrors() || (res.Bag.HasWarnings() && !quiet) {
		opts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, errOut),
			Context:   2,
			ShowNotes: true,
		}
		diagfmt.Pretty(errOut, onlyErrors(res.Bag, quiet), res.FileSet, opts)
		printDropped(errOut, res.Bag)
	}
	if res.Timer != nil && !quiet {
		fmt.Fprint(errOut, res.Timer.Summary())
	}
	if !res.OK() {
		return errDiagnostics
	}
	return nil
}

// printDropped mentions diagnostics cut by --max-diagnostics.
func printDropped(w io.Writer, bag *diag.Bag) {
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown (raise --max-diagnostics)\n", n)
	}
}

// onlyErrors drops warnings when quiet is set.
func onlyErrors(bag *diag.Bag, quiet bool) *diag.Bag {
	if !quiet {
		return bag
	}
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			out.Add(d)
		}
	}
	return out
}
