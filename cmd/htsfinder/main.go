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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/htsfinder"
	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/core"
	"github.com/poiesic/htsfinder/search"
	"github.com/poiesic/htsfinder/tree"
	"github.com/urfave/cli/v2"
)

const credentialEnv = "HTSFINDER_CREDENTIAL"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "htsfinder",
		Usage: "Browse and search a tariff classification tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the tree and print ranked results",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags:     append(sessionFlags(), &cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print stage timings to stderr"}),
			},
			{
				Name:   "browse",
				Usage:  "Browse the tree interactively",
				Action: browseCommand,
				Flags:  append(sessionFlags(), &cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print stage timings to stderr"}),
			},
			{
				Name:      "path",
				Usage:     "Print the full description of a code",
				ArgsUsage: "CODE",
				Action:    pathCommand,
				Flags: []cli.Flag{
					treeFlag(),
				},
			},
			{
				Name:   "build-tree",
				Usage:  "Build a tree document from flat classification exports",
				Action: buildTreeCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Flat export file; repeat to concatenate several",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Tree document to write (- for stdout)",
						Value:   "-",
					},
				},
			},
		},
	}
}

func treeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tree",
		Aliases:  []string{"t"},
		Usage:    "Path to the tree document",
		Required: true,
	}
}

// sessionFlags are shared by the commands that run searches.
func sessionFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		treeFlag(),
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Collaborator adapter (openai, backend)",
			Value: defaults.Provider,
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "Collaborator service base URL",
			Value: defaults.Endpoint,
		},
		&cli.StringFlag{
			Name:    "credential",
			Usage:   "Bearer credential for the collaborator service",
			EnvVars: []string{credentialEnv},
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Chat model name (openai provider only)",
			Value: defaults.Model,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for each collaborator call",
			Value: defaults.Timeout,
		},
		&cli.IntFlag{
			Name:  "candidates",
			Usage: "Number of lexical candidates sent for reranking",
			Value: search.DefaultCandidateLimit,
		},
		&cli.IntFlag{
			Name:  "results",
			Usage: "Number of results to keep",
			Value: search.DefaultResultLimit,
		},
	}
}

// aiConfigFromFlags maps the collaborator flags onto an ai.Config.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithProvider(c.String("provider")),
		ai.WithEndpoint(c.String("endpoint")),
		ai.WithCredential(c.String("credential")),
		ai.WithModel(c.String("model")),
		ai.WithTimeout(c.Duration("timeout")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

func openSession(c *cli.Context) (*htsfinder.Session, error) {
	cfg, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	if c.Int("candidates") <= 0 {
		return nil, fmt.Errorf("candidates must be greater than 0")
	}
	if c.Int("results") <= 0 {
		return nil, fmt.Errorf("results must be greater than 0")
	}

	opts := []htsfinder.SessionOption{
		htsfinder.WithAIConfig(cfg),
		htsfinder.WithSearchOptions(
			search.WithResultLimit(c.Int("results")),
			search.WithScorerOptions(search.WithCandidateLimit(c.Int("candidates"))),
		),
	}
	if c.Bool("verbose") {
		opts = append(opts, htsfinder.WithMonitor(newStageTimer(c.App.ErrWriter)))
	}

	session, err := htsfinder.OpenSession(c.String("tree"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return session, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return core.ErrEmptyQuery
	}

	session, err := openSession(c)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.TreeError(); err != nil {
		return err
	}

	results, err := session.Search(c.Context, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printResults(c.App.Writer, results)
	return nil
}

func browseCommand(c *cli.Context) error {
	session, err := openSession(c)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.TreeError(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
	}

	r := newREPL(session, c.App.Writer)
	return r.run(c.Context, c.App.Reader)
}

func pathCommand(c *cli.Context) error {
	code := strings.TrimSpace(c.Args().First())
	if code == "" {
		return fmt.Errorf("a code is required")
	}

	t, err := tree.LoadFile(c.String("tree"))
	if err != nil {
		return err
	}

	desc, ok := t.FullDescriptionOf(code)
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrNotFound, code)
	}
	fmt.Fprintln(c.App.Writer, desc)
	return nil
}

func buildTreeCommand(c *cli.Context) error {
	var records []tree.Record
	for _, path := range c.StringSlice("input") {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		batch, err := tree.DecodeRecords(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		records = append(records, batch...)
	}

	roots := tree.Build(records)

	out := c.App.Writer
	if path := c.String("output"); path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(roots); err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}

	slog.Info("built tree", "records", len(records), "roots", len(roots))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

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
