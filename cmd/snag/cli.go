package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/snaghq/snag/internal/config"
	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/ops"
	"github.com/snaghq/snag/internal/record"
	"github.com/snaghq/snag/internal/sweep"
	"github.com/snaghq/snag/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfgDir string) *cli.App {
	app := &cli.App{
		Name:    "snag",
		Usage:   "Capture notes into your project directories",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(cfgDir),
			listCmd(),
			showCmd(),
			statusCmd("resolve", "Mark a record resolved", record.StatusResolved),
			statusCmd("reopen", "Reopen a resolved record", record.StatusOpen),
			nextCmd(cfgDir),
			sweepCmd(cfgDir),
			projectsCmd(cfgDir),
			serveCmd(cfgDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// projectFlag is the shared --project flag; most commands operate on one
// project directory, defaulting to the working directory.
func projectFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Project directory (defaults to the working directory)"}
}

// resolveProject expands the --project flag to an absolute path.
func resolveProject(c *cli.Context) (string, error) {
	project := c.String("project")
	if project == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		project = wd
	}
	return filepath.Abs(project)
}

// captureCmd creates the capture command.
func captureCmd(cfgDir string) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture a note into a project's record store",
		ArgsUsage: "<description>",
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{Name: "details", Aliases: []string{"d"}, Usage: "Free-form body stored under the Details heading"},
			&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "PNG file to attach as the capture screenshot"},
		},
		Action: func(c *cli.Context) error {
			description := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if description == "" {
				return outputError(errors.NewInvalidRequest("description is required"))
			}

			project, err := resolveProject(c)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var image []byte
			if path := c.String("image"); path != "" {
				image, err = os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read image: %v", err)))
				}
			}

			output, err := ops.Capture(ops.CaptureInput{
				ProjectPath: project,
				Description: description,
				Details:     c.String("details"),
				Tags:        parseTags(c.String("tags")),
				Image:       image,
			})
			if err != nil {
				return outputError(err)
			}

			// Register the project and move it to the head of the MRU list.
			if cfg, cfgErr := config.Load(cfgDir); cfgErr == nil {
				_ = config.TouchProject(cfgDir, cfg, project)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List a project's records, newest first",
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status: open or resolved"},
		},
		Action: func(c *cli.Context) error {
			project, err := resolveProject(c)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.List(ops.ListInput{
				ProjectPath: project,
				Status:      c.String("status"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a record, including its raw markdown",
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			project, err := resolveProject(c)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Fetch(ops.FetchInput{
				ProjectPath: project,
				ID:          c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statusCmd creates a command that sets a record's status to a fixed value.
func statusCmd(name, usage, status string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<id>",
		Flags:     []cli.Flag{projectFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}
			project, err := resolveProject(c)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.UpdateStatus(ops.UpdateStatusInput{
				ProjectPath: project,
				ID:          c.Args().First(),
				Status:      status,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// nextCmd creates the next command.
func nextCmd(cfgDir string) *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "Show the oldest open record across configured projects",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "Limit to one project directory"},
		},
		Action: func(c *cli.Context) error {
			projects := []string{}
			if p := c.String("project"); p != "" {
				abs, err := filepath.Abs(p)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				projects = append(projects, abs)
			} else {
				cfg, err := config.Load(cfgDir)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				projects = cfg.Projects
			}

			output, err := ops.Next(ops.NextInput{Projects: projects})
			if err != nil {
				return outputError(err)
			}
			if output == nil {
				return outputJSON(map[string]any{"next": nil})
			}
			return outputJSON(output)
		},
	}
}

// sweepCmd creates the sweep command.
func sweepCmd(cfgDir string) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Run the retention sweep over every configured project",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "retention-days", Value: -1, Usage: "Override the configured retention window"},
			&cli.BoolFlag{Name: "keep-resolved", Usage: "Do not auto-delete resolved records on this pass"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(cfgDir)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			policy := sweep.Policy{
				RetentionDays:      cfg.Cleanup.RetentionDays,
				AutoDeleteResolved: cfg.Cleanup.AutoDeleteResolved,
			}
			if days := c.Int("retention-days"); days >= 0 {
				policy.RetentionDays = days
			}
			if c.Bool("keep-resolved") {
				policy.AutoDeleteResolved = false
			}

			return outputJSON(sweep.All(cfg.Projects, policy))
		},
	}
}

// projectsCmd creates the projects command.
func projectsCmd(cfgDir string) *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List configured projects with record counts",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a project directory",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("path argument is required"))
					}
					cfg, err := config.Load(cfgDir)
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					if err := config.AddProject(cfgDir, cfg, c.Args().First()); err != nil {
						return outputError(errors.NewInternal(err))
					}
					return outputJSON(map[string]any{"projects": cfg.Projects})
				},
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(cfgDir)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			type entry struct {
				Path  string           `json:"path"`
				Name  string           `json:"name"`
				Stats ops.ProjectStats `json:"stats"`
			}
			entries := make([]entry, 0, len(cfg.Projects))
			for _, p := range cfg.Projects {
				entries = append(entries, entry{
					Path:  p,
					Name:  filepath.Base(p),
					Stats: ops.Stats(p),
				})
			}
			return outputJSON(entries)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(cfgDir string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the dashboard server and background sweep until interrupted",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Dashboard port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(cfgDir)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			port := cfg.Port
			if c.Int("port") > 0 {
				port = c.Int("port")
			}

			srv := web.NewServer(cfgDir, port)
			if err := srv.Start(); err != nil {
				return outputError(errors.NewInternal(err))
			}

			sched := sweep.NewScheduler(func() ([]string, sweep.Policy) {
				// Re-read config each pass so project and policy edits
				// apply without a restart.
				current, err := config.Load(cfgDir)
				if err != nil {
					return nil, sweep.Policy{}
				}
				return current.Projects, sweep.Policy{
					RetentionDays:      current.Cleanup.RetentionDays,
					AutoDeleteResolved: current.Cleanup.AutoDeleteResolved,
				}
			})
			if cfg.Cleanup.Enabled {
				interval := time.Duration(cfg.Cleanup.IntervalMinutes) * time.Minute
				if err := sched.Start(interval); err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			_ = sched.Stop()
			return srv.Stop()
		},
	}
}

// Output helpers

// outputJSON prints a value as indented JSON to stdout.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// outputError prints a structured error as JSON to stderr and returns it so
// the process exits non-zero.
func outputError(err error) error {
	sErr, ok := err.(*errors.SnagError)
	if !ok {
		sErr = errors.NewInternal(err)
	}
	data, _ := json.MarshalIndent(map[string]any{
		"error": map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
		},
	}, "", "  ")
	fmt.Fprintln(os.Stderr, string(data))
	return err
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
