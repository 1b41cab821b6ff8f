// Copyright 2026 Poiesic Systems
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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/trialdex"
	"github.com/poiesic/trialdex/ai"
	"github.com/poiesic/trialdex/retrieval"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "trialdex",
		Usage: "Hybrid retrieval engine for clinical trial records",
		Flags: []cli.Flag{
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
				Name:   "ingest",
				Usage:  "Load a CSV of trial records into the store",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "csv",
						Usage:    "Path to the source CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dataset",
						Usage:    "Dataset id to ingest under",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Human-readable dataset name (defaults to the dataset id)",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Free-form notes stored with the dataset",
					},
					&cli.StringFlag{
						Name:  "mapping",
						Usage: "JSON object mapping canonical fields to CSV columns (default: auto-map)",
					},
				),
			},
			{
				Name:   "index",
				Usage:  "Build the vector index and swap it in",
				Action: indexCommand,
				Flags: append(storeFlags(),
					embeddingFlags(
						&cli.StringFlag{
							Name:  "dataset",
							Usage: "Re-embed only this dataset, carrying the rest over",
						},
					)...,
				),
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid query over the index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					embeddingFlags(
						&cli.StringFlag{
							Name:  "phase",
							Usage: "Filter by trial phase, e.g. 'Phase 2' or PHASE2",
						},
						&cli.StringFlag{
							Name:  "disease",
							Usage: "Filter by disease substring",
						},
						&cli.StringFlag{
							Name:  "status",
							Usage: "Filter by status substring",
						},
						&cli.IntFlag{
							Name:  "min-participants",
							Usage: "Keep only trials with at least this many participants",
							Value: -1,
						},
						&cli.StringFlag{
							Name:  "dataset",
							Usage: "Restrict results to one dataset",
						},
						&cli.IntFlag{
							Name:  "top-k",
							Usage: "Maximum number of results",
							Value: retrieval.DefaultTopK,
						},
					)...,
				),
			},
			{
				Name:      "get",
				Usage:     "Fetch one trial record as JSON",
				ArgsUsage: "<trial-id>",
				Action:    getCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Dataset to look in (default: scan datasets in registry order)",
					},
				),
			},
			{
				Name:   "datasets",
				Usage:  "List registered datasets",
				Action: datasetsCommand,
				Flags:  storeFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "index-file",
			Usage: "Path to the persisted index snapshot",
		},
	}
}

func embeddingFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
	}
	return append(flags, extra...)
}

func openEngine(c *cli.Context) (*trialdex.Engine, error) {
	// Not every command carries embedding flags; keep defaults when absent
	var cfgOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		cfgOpts = append(cfgOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		cfgOpts = append(cfgOpts, ai.WithEmbeddingModel(model))
	}
	aiConfig := ai.NewConfig(cfgOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []trialdex.EngineOption{trialdex.WithAIConfig(aiConfig)}
	if indexFile := c.String("index-file"); indexFile != "" {
		opts = append(opts, trialdex.WithIndexPath(indexFile))
	}

	engine, err := trialdex.NewEngine(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	var mapping map[string]string
	if raw := c.String("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			return fmt.Errorf("invalid mapping JSON: %w", err)
		}
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.IngestCSV(ctx, c.String("csv"), c.String("dataset"), c.String("name"), c.String("notes"), mapping)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d trials into dataset %s\n", count, c.String("dataset"))
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	meta, err := engine.BuildIndex(ctx, c.String("dataset"))
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d trials (dim %d, model %s)\n",
		meta.ItemCount, meta.Dimension, meta.EmbeddingModel)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	opts := retrieval.Options{
		Phase:     c.String("phase"),
		Disease:   c.String("disease"),
		Status:    c.String("status"),
		DatasetID: c.String("dataset"),
		TopK:      c.Int("top-k"),
	}
	if min := c.Int("min-participants"); min >= 0 {
		opts.MinParticipants = &min
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.SearchTrials(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No results")
		return nil
	}
	for i, result := range results {
		participants := "unknown"
		if result.NParticipants != nil {
			participants = fmt.Sprintf("%d", *result.NParticipants)
		}
		fmt.Printf("%2d. [%.4f] %s/%s  %s  %s  participants=%s\n",
			i+1, result.Score, result.DatasetID, result.TrialID,
			result.Disease, result.Phase, participants)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	trialID := c.Args().First()
	if trialID == "" {
		return fmt.Errorf("trial id is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	trial, err := engine.GetTrial(ctx, c.String("dataset"), trialID)
	if err != nil {
		return fmt.Errorf("failed to fetch trial: %w", err)
	}

	encoded, err := json.MarshalIndent(trial, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trial: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func datasetsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	datasets, err := engine.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	if len(datasets) == 0 {
		fmt.Fprintln(os.Stderr, "No datasets registered")
		return nil
	}
	for _, dataset := range datasets {
		fmt.Printf("%s\t%s\trows=%d\tingested=%s\n",
			dataset.ID, dataset.Name, dataset.RowCount,
			dataset.IngestedAt.Format("2006-01-02"))
	}
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
