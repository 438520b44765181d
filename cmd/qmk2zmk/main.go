package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qmk2zmk/internal/config"
	"qmk2zmk/internal/ctxlog"
	"qmk2zmk/internal/driver"
	"qmk2zmk/internal/version"
)

// errDiagnostics signals that diagnostics with errors were already printed.
var errDiagnostics = errors.New("conversion failed")

// newRootCmd собирает дерево команд; без подкоманды работает как convert.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qmk2zmk [flags] [keymap.c...]",
		Short: "Convert a QMK Ergodox keymap to ZMK layer blocks",
		Long: `qmk2zmk reads the keymaps table of a QMK keymap.c written for
LAYOUT_ergodox_pretty and prints the equivalent ZMK layer blocks.
With no file (or "-") the keymap is read from standard input.`,
		Args:              cobra.ArbitraryArgs,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
		RunE:              runConvert,
	}

	// Глобальные флаги
	root.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress warnings and non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "text", "log format (text|json)")
	root.PersistentFlags().Bool("allow-shape-mismatch", false, "pad or truncate layers whose binding count differs from the grid (overrides the config)")
	addConvertFlags(root)

	root.AddCommand(newConvertCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main runs the CLI and exits with status 1 on any failure.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "qmk2zmk: "+err.Error())
		}
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return fmt.Errorf("failed to get log-format flag: %w", err)
	}
	logger, err := ctxlog.New(level, format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	return nil
}

// driverOptions собирает опции конвейера из конфига и глобальных флагов.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.LoadFile(cfgPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return driver.Options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return driver.Options{}, fmt.Errorf("invalid config: %w", err)
	}
	if cmd.Flags().Changed("allow-shape-mismatch") {
		cfg.Render.AllowShapeMismatch, err = cmd.Flags().GetBool("allow-shape-mismatch")
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to get allow-shape-mismatch flag: %w", err)
		}
	}
	if cfg.Path != "" {
		ctxlog.FromContext(cmd.Context()).Debug("config loaded", "path", cfg.Path)
	}

	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return driver.Options{Config: cfg, MaxDiagnostics: maxDiagnostics, Timings: timings}, nil
}

// useColor resolves --color for w; "auto" colours only terminals.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	colorFlag, _ := cmd.Flags().GetString("color")
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
