// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func worksheetArg() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "worksheet",
			UsageText: "Path to a .json, .yaml or .yml worksheet",
		},
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// runCommand launches the interactive worksheet.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"tui", "ui"},
		Usage:     "Work through a worksheet interactively",
		Arguments: worksheetArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory for reports exported with ctrl+e",
				Value: ".",
			},
		},
		Action: r.Run,
	}
}

// checkCommand checks a single answer without the TUI.
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check one answer and save progress",
		Arguments: worksheetArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "task",
				Aliases:  []string{"t"},
				Usage:    "Task ID to check",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "answer",
				Aliases: []string{"a"},
				Usage:   "Answer text, or option number/text for multiple choice",
			},
			&cli.StringSliceFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "item=target placement for matching tasks (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Check,
	}
}

// progressCommand inspects stored progress.
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Inspect or clear stored progress",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show progress for a worksheet",
				Arguments: worksheetArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the stored snapshot as JSON",
					},
				},
				Action: r.ProgressShow,
			},
			{
				Name:      "clear",
				Usage:     "Delete stored progress for a worksheet",
				Arguments: worksheetArg(),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "responses",
						Usage: "Also delete recorded responses",
					},
				},
				Action: r.ProgressClear,
			},
			{
				Name:   "list",
				Usage:  "List every stored progress key",
				Action: r.ProgressList,
			},
		},
	}
}

// exportCommand writes a progress report.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a progress report (csv, md, txt, json)",
		Arguments: worksheetArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: csv, md, txt or json",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (prints to stdout when empty)",
			},
		},
		Action: r.Export,
	}
}

// responsesCommand lists recorded checks.
func responsesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "responses",
		Usage:     "List recorded answer checks for a worksheet",
		Arguments: worksheetArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "task",
				Aliases: []string{"t"},
				Usage:   "Only show responses for this task",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Responses,
	}
}
