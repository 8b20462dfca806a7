package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wsx/internal/shared"
	"github.com/desertthunder/wsx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Run launches the interactive terminal UI for a worksheet.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("worksheet")
	if path == "" {
		return fmt.Errorf("%w: worksheet path", shared.ErrMissingArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	s, err := r.openSession(path)
	if err != nil {
		return err
	}

	opts := ui.Options{
		Worksheet:     s.worksheet,
		Store:         s.store,
		Key:           s.key,
		ReplayAnswers: r.config.Progress.ReplayAnswers,
		Autosave:      r.config.Progress.Autosave,
		Palette:       ui.PaletteFromConfig(r.config.UI),
		Logger:        shared.WithLogger(r.logger, "worksheet", s.worksheet.Slug()),
		ExportDir:     cmd.String("export-dir"),
	}
	if r.config.Progress.RecordChecks {
		opts.Recorder = s.responses
	}

	model := ui.NewModel(opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// final flush so the last state survives even with autosave off
	if err := model.Engine().Save(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageFailed, err)
	}

	r.logger.Info("session ended", "key", s.key, "completed", model.Engine().CompletedCount(), "total", len(model.Engine().Tasks()))
	return nil
}
