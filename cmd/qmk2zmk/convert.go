package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qmk2zmk/internal/driver"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/zmk"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [flags] [keymap.c...]",
		Short: "Convert a keymap and print the ZMK layer blocks",
		Long: `Convert extracts the keymaps table, rewrites and parses it, and prints one
ZMK layer block per layer. Several files are read as one concatenated stream.
Nothing is printed unless every layer converts.`,
		RunE: runConvert,
	}
	addConvertFlags(cmd)
	return cmd
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "write the blocks to this file instead of stdout")
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	fs := source.NewFileSet()
	inputs, err := driver.LoadInputs(fs, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res := driver.Convert(cmd.Context(), fs, inputs, opts)
	if err := reportResult(cmd, res); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := zmk.Write(&buf, res.Blocks); err != nil {
		return err
	}
	if output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
