package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/snaghq/snag/internal/config"
	"github.com/snaghq/snag/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"capture": true, "list": true, "show": true,
	"resolve": true, "reopen": true, "next": true,
	"sweep": true, "projects": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _ __   __ _  __ _
  / __| '_ \ / _` + "`" + ` |/ _` + "`" + ` |
  \__ \ | | | (_| | (_| |
  |___/_| |_|\__,_|\__, |
                   |___/

  Capture notes into your project directories

  Usage: snag <command> [options]
         snag --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Optional .env for overrides like SNAG_PORT and SNAG_CONFIG_DIR
	_ = godotenv.Load()

	cfgDir, err := config.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine config directory: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(cfgDir)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'snag --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default). Tool traffic owns stdout, logs go to stderr.
	logrus.SetOutput(os.Stderr)
	if err := mcp.Run(cfgDir, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
