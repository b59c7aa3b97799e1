// Copyright 2025 Venetia Project
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
	"time"

	"github.com/urfave/cli/v2"

	venetia "github.com/elonge/venetia-engine"
	"github.com/elonge/venetia-engine/config"
	"github.com/elonge/venetia-engine/core"
	"github.com/elonge/venetia-engine/ingestion"
	"github.com/elonge/venetia-engine/reembed"
	"github.com/elonge/venetia-engine/retrieval"
)

func main() {
	app := &cli.App{
		Name:  "venetia",
		Usage: "Semantic retrieval and signal extraction over the Asquith letters",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "config.yaml",
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
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Chunk, embed, and store a directory of letters",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory of .txt/.md documents",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
					&cli.BoolFlag{
						Name:  "skip-buckets",
						Usage: "Skip building bucket embeddings after ingestion",
					},
				},
			},
			{
				Name:   "build-buckets",
				Usage:  "Rebuild bucket embeddings from stored chunks",
				Action: buildBucketsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "granularity",
						Usage: "Bucket granularity (week, month, or both)",
						Value: "both",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete existing buckets at the granularity first",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Only include chunks on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Only include chunks on or before this date (YYYY-MM-DD)",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every stored chunk",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per provider call",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question and stream the cited answer",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
			{
				Name:   "series",
				Usage:  "Derive a concept intensity time series",
				Action: seriesCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "term",
						Aliases:  []string{"t"},
						Usage:    "Concept term, e.g. \"anxiety about the war\"",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "granularity",
						Usage: "Bucket granularity (week or month)",
						Value: "week",
					},
					&cli.IntFlag{
						Name:  "window",
						Usage: "Rolling mean window in buckets",
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Series start date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Series end date (YYYY-MM-DD)",
					},
				},
			},
			{
				Name:   "sources",
				Usage:  "List the document sources available in the store",
				Action: sourcesCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openEngine loads the config and builds an engine for a command.
func openEngine(c *cli.Context) (*venetia.Engine, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	engine, err := venetia.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return engine, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	engine, err := venetia.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	defer engine.Close()

	if err := engine.EnsureCollection(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	srv, err := engine.NewServer()
	if err != nil {
		return err
	}

	slog.Info("serving", "addr", cfg.Server.Addr)
	return srv.Run(cfg.Server.Addr)
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	pipeline, err := engine.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	chunks, err := pipeline.IngestDirectory(ctx, c.String("dir"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Ingested %d chunks from %s\n", len(chunks), c.String("dir"))

	if c.Bool("skip-buckets") {
		return nil
	}

	builder, err := engine.NewBucketBuilder()
	if err != nil {
		return err
	}
	for _, g := range []core.Granularity{core.GranularityWeek, core.GranularityMonth} {
		written, err := builder.Build(ctx, chunks, g, &ingestion.BuildOptions{Clear: true})
		if err != nil {
			return fmt.Errorf("failed to build %s buckets: %w", g, err)
		}
		fmt.Fprintf(os.Stderr, "Built %d %s buckets\n", written, g)
	}
	return nil
}

func buildBucketsCommand(c *cli.Context) error {
	ctx := context.Background()

	var granularities []core.Granularity
	switch c.String("granularity") {
	case "week":
		granularities = []core.Granularity{core.GranularityWeek}
	case "month":
		granularities = []core.Granularity{core.GranularityMonth}
	case "both":
		granularities = []core.Granularity{core.GranularityWeek, core.GranularityMonth}
	default:
		return fmt.Errorf("invalid granularity %q: must be week, month, or both", c.String("granularity"))
	}

	opts := &ingestion.BuildOptions{Clear: c.Bool("clear")}
	var err error
	if opts.From, err = parseDateFlag(c.String("from")); err != nil {
		return err
	}
	if opts.To, err = parseDateFlag(c.String("to")); err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	chunks, err := engine.ScrollChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Read %d chunks from store\n", len(chunks))

	builder, err := engine.NewBucketBuilder()
	if err != nil {
		return err
	}
	for _, g := range granularities {
		written, err := builder.Build(ctx, chunks, g, opts)
		if err != nil {
			return fmt.Errorf("failed to build %s buckets: %w", g, err)
		}
		fmt.Fprintf(os.Stderr, "Built %d %s buckets\n", written, g)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	source, ok := engine.ChunkStore().(reembed.ChunkSource)
	if !ok {
		return fmt.Errorf("chunk store does not support scrolling")
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(source, engine.ChunkStore(),
		engine.Provider().Embedder(), reembedConfig, os.Stderr)
	if err != nil {
		return err
	}

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx := context.Background()
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	bundle, err := engine.Retriever().Retrieve(ctx, question, retrieval.ChatTopK)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	events, err := engine.Streamer().Stream(ctx, bundle, nil, question)
	if err != nil {
		return err
	}

	for event := range events {
		if event.Err != nil {
			fmt.Fprintln(os.Stdout)
			return fmt.Errorf("generation failed: %w", event.Err)
		}
		if event.Delta != "" {
			fmt.Fprint(os.Stdout, event.Delta)
		}
		if event.Done {
			fmt.Fprintln(os.Stdout)
			if len(event.Sources) > 0 {
				fmt.Fprintln(os.Stdout, "\nSources:")
				for i, src := range event.Sources {
					title := src.DocumentTitle
					if title == "" {
						title = src.Source
					}
					fmt.Fprintf(os.Stdout, "  [%d] %s\n", i+1, title)
				}
			}
		}
	}
	return nil
}

func seriesCommand(c *cli.Context) error {
	ctx := context.Background()

	from, err := parseDateFlag(c.String("from"))
	if err != nil {
		return err
	}
	to, err := parseDateFlag(c.String("to"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	series, err := engine.SeriesPipeline().DeriveSeriesRange(ctx,
		c.String("term"),
		core.ParseGranularity(c.String("granularity")),
		c.Int("window"),
		from, to)
	if err != nil {
		return fmt.Errorf("series derivation failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(series)
}

func sourcesCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sources, err := engine.ChunkStore().ListSources(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	for _, source := range sources {
		fmt.Fprintln(os.Stdout, source)
	}
	return nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t.UTC(), nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
