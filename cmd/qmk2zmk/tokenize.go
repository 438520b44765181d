package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmk2zmk/internal/diagfmt"
	"qmk2zmk/internal/driver"
	"qmk2zmk/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] [keymap.c...]",
		Short: "Print the tokens of the rewritten keymaps table",
		Long:  `Tokenize extracts and rewrites the keymaps table, then breaks it down into tokens`,
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	inputs, err := driver.LoadInputs(fs, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, toks := driver.Tokenize(cmd.Context(), fs, inputs, opts)

	// Выводим диагностику в stderr, если есть
	diagErr := reportResult(cmd, res)
	if toks == nil {
		return diagErr
	}

	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks, fs)
	default:
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, fs)
	}
	if err != nil {
		return err
	}
	return diagErr
}
