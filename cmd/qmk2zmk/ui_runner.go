package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"qmk2zmk/internal/driver"
	"qmk2zmk/internal/ui"
)

type checkOutcome struct {
	results []driver.CheckResult
	err     error
}

// wantProgressUI: "auto" включает прогресс только на терминале и для нескольких файлов.
func wantProgressUI(mode string, w io.Writer, files int, quiet bool) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && !quiet && files > 1 && isTerminal(f), nil
	}
	return false, fmt.Errorf("unknown ui mode: %s", mode)
}

func runCheckWithUI(cmd *cobra.Command, paths []string, opts driver.Options, jobs int) ([]driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.Check(cmd.Context(), paths, o, jobs)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking keymaps", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(cmd.ErrOrStderr()), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал, освобождаем отправителей
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
