// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/surf/internal/formatter"
	"github.com/desertthunder/surf/internal/server"
	"github.com/urfave/cli/v3"
)

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your StudySurf account and session",
		Commands: []*cli.Command{
			{
				Name:  "signin",
				Usage: "Sign in and store the session (prompts for missing values)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted without echo when omitted)",
					},
				},
				Action: r.AuthSignin,
			},
			{
				Name:   "signup",
				Usage:  "Create an account with the three step wizard",
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check backend health and the stored session",
				Action: r.AuthStatus,
			},
		},
	}
}

// profileCommand handles profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or update your learning profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Fetch the profile from the backend",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update preferences; omitted flags keep their current value",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Full name"},
					&cli.IntFlag{Name: "age", Usage: "Age"},
					&cli.StringFlag{Name: "academic-level", Usage: "Academic level, e.g. College"},
					&cli.StringFlag{Name: "major", Usage: "Major or field of study"},
					&cli.BoolFlag{Name: "dyslexia", Usage: "Enable dyslexia support"},
					&cli.StringFlag{Name: "language", Usage: "Language preference"},
					&cli.StringSliceFlag{Name: "learning-style", Usage: "Learning style id (repeatable): visual, auditory, kinesthetic, reading"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.ProfileUpdate,
			},
		},
	}
}

// uploadCommand handles video uploads
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload one or more videos and generate learning materials",
		ArgsUsage: "<path> [path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the raw result as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record the upload in the local history database",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent uploads when several paths are given (max 4)",
				Value: 2,
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Write a JSON summary of a bulk upload to this path",
			},
		},
		Action: r.Upload,
	}
}

// contentCommand handles rendering of the last result
func contentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "View, export or practice the last generated materials",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Render sections of the last result",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "section",
						Aliases: []string{"s"},
						Usage:   "Section to render (repeatable): explanation, animation, code, visualization, application, summary, quiz",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the raw result as JSON",
					},
					&cli.StringFlag{
						Name:  "upload",
						Usage: "Render a result from history (id or #sequence) instead of the last one",
					},
				},
				Action: r.ContentShow,
			},
			{
				Name:  "export",
				Usage: "Write the last result as markdown and flashcard CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   formatter.DefaultExportDir,
					},
				},
				Action: r.ContentExport,
			},
			{
				Name:  "quiz",
				Usage: "Answer the generated quiz interactively",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not record the attempt",
					},
				},
				Action: r.ContentQuiz,
			},
		},
	}
}

// historyCommand handles the local upload history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse uploads recorded in the local database",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded uploads, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Filter by status: pending, completed, failed"},
					&cli.BoolFlag{Name: "all", Usage: "Include uploads of other users"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of uploads", Value: 20},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show one upload and its quiz attempts",
				ArgsUsage: "<id|#sequence>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "ref"},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Usage:     "Remove an upload from the history",
				ArgsUsage: "<id|#sequence>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "ref"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the history database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Show applied migrations without changing anything",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// devCommand handles development helpers
func devCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Development helpers",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Run a local backend with canned results",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: "localhost:8000",
					},
					&cli.StringFlag{
						Name:  "result",
						Usage: "JSON file returned by the upload endpoint (defaults to a built-in demo)",
					},
					&cli.StringFlag{
						Name:  "secret",
						Usage: "Token signing secret",
						Value: server.DefaultSecret,
					},
					&cli.DurationFlag{
						Name:  "token-ttl",
						Usage: "Access token lifetime",
						Value: server.DefaultTokenTTL,
					},
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "Create a demo/demo account on startup",
					},
				},
				Action: r.DevServer,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard",
		Action:  r.TUI,
	}
}
