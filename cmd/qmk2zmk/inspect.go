package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qmk2zmk/internal/driver"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/source"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [flags] [keymap.c...]",
		Short: "Show the evaluated layers without rendering them",
		Long:  `Inspect stops after evaluation and dumps the layer model as a listing, JSON or msgpack`,
		RunE:  runInspect,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", format)
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
	res := driver.Run(cmd.Context(), fs, inputs, opts, driver.StageEval)
	if err := reportResult(cmd, res); err != nil {
		return err
	}

	model := driver.BuildModel(res, opts)
	if format == "pretty" {
		renderModel(cmd.OutOrStdout(), model, useColor(cmd, cmd.OutOrStdout()))
		return nil
	}
	return driver.EncodeModel(cmd.OutOrStdout(), model, format)
}

type inspectStyles struct {
	title lipgloss.Style
	dim   lipgloss.Style
	kinds map[string]lipgloss.Style
}

func newInspectStyles(color bool) inspectStyles {
	st := inspectStyles{
		title: lipgloss.NewStyle(),
		dim:   lipgloss.NewStyle(),
		kinds: map[string]lipgloss.Style{},
	}
	if !color {
		return st
	}
	st.title = st.title.Bold(true).Foreground(lipgloss.Color("7"))
	st.dim = st.dim.Foreground(lipgloss.Color("8"))
	st.kinds = map[string]lipgloss.Style{
		"mod-tap":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"momentary":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"toggle":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"tap-dance":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"right-ctrl": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
	return st
}

func (s inspectStyles) kind(k string) lipgloss.Style {
	if st, ok := s.kinds[k]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// renderModel печатает слои списком: индекс, вид привязки, аргументы.
func renderModel(w io.Writer, m driver.Model, color bool) {
	st := newInspectStyles(color)
	idxCol := lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	kindCol := lipgloss.NewStyle().Width(12).PaddingLeft(2)

	fmt.Fprintln(w, st.dim.Render(fmt.Sprintf("%s (table starts at line %d, mod layer %q)", m.Source, m.StartLine, m.ModLayer)))
	for _, l := range m.Layers {
		fmt.Fprintln(w, st.title.Render(fmt.Sprintf("%s [%s] %d bindings", l.Name, l.Ref, len(l.Bindings))))
		for i, b := range l.Bindings {
			kind := st.kind(b.Kind).Inherit(kindCol).Render(b.Kind)
			fmt.Fprintln(w, idxCol.Render(fmt.Sprint(i))+kind+describeBinding(b))
		}
	}
}

func describeBinding(b keymap.BindingView) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{b.Mod, b.Code, b.Layer} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
