// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vestige",
		Usage: "Versioned content store with feedback-driven search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
				EnvVars: []string{"VESTIGE_DB"},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"VESTIGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Path to feedback state file (default: <db>.feedback.json)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "store",
				Usage:     "Store a document body (use - to read stdin)",
				ArgsUsage: "<body>",
				Action:    storeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "Source URL"},
					&cli.StringFlag{Name: "title", Usage: "Document title"},
					&cli.StringSliceFlag{Name: "meta", Aliases: []string{"m"}, Usage: "Metadata as key=value, repeatable"},
				},
			},
			{
				Name:      "get",
				Usage:     "Show a document",
				ArgsUsage: "<digest>",
				Action:    getCommand,
			},
			{
				Name:   "list",
				Usage:  "List the most recent documents",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum documents", Value: 20},
				},
			},
			{
				Name:      "grep",
				Usage:     "Find documents containing text, ignoring case",
				ArgsUsage: "<text>",
				Action:    grepCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum documents", Value: 20},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank documents by similarity and past feedback",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "results", Aliases: []string{"n"}, Usage: "Number of results", Value: 5},
				},
			},
			{
				Name:      "feedback",
				Usage:     "Rate a search result between 0 and 1",
				ArgsUsage: "<search-id> <digest> <score>",
				Action:    feedbackCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show database and search statistics",
				Action: statsCommand,
			},
			{
				Name:      "review",
				Usage:     "Record a human review of a document",
				ArgsUsage: "<digest>",
				Action:    reviewCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "feedback", Aliases: []string{"f"}, Usage: "Review comments"},
					&cli.BoolFlag{Name: "approved", Usage: "Mark the document approved"},
				},
			},
			{
				Name:      "process",
				Usage:     "Run an AI agent over a document",
				ArgsUsage: "<digest>",
				Action:    processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "agent", Aliases: []string{"a"}, Usage: "Agent name", Value: "writer"},
					&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "Agent parameter as key=value, repeatable"},
				},
			},
			{
				Name:      "outputs",
				Usage:     "List agent outputs for a document",
				ArgsUsage: "<digest>",
				Action:    outputsCommand,
			},
			{
				Name:   "agents",
				Usage:  "List available AI agents",
				Action: agentsCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Store files as documents",
				ArgsUsage: "<file>...",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "lines", Usage: "Store each non-empty line as its own document"},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a document (not supported by the version store)",
				ArgsUsage: "<digest>",
				Action:    deleteCommand,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	return applyLogLevel(c.String("log-level"))
}

// applyLogLevel installs a text handler on stderr at the given level.
func applyLogLevel(levelStr string) error {
	// Normalize to lowercase
	levelStr = strings.ToLower(levelStr)

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
