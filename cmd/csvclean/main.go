package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/csvclean/internal/config"
	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/logging"
	"github.com/JonMunkholm/csvclean/internal/sink"
	"github.com/JonMunkholm/csvclean/internal/source"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // A stage failed
	exitUsage  = 2 // Bad arguments or configuration
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvclean", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configCheck := fs.Bool("config-check", false, "load and validate configuration, print it, and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: csvclean [-config-check] [input-path] [output-path]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Deduplicates rows, imputes missing values, trims text and coerces numbers.")
		fmt.Fprintln(stderr, "Paths default to CSVCLEAN_INPUT and CSVCLEAN_OUTPUT.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 2 {
		fs.Usage()
		return exitUsage
	}

	// Load .env file if it exists; variables already set in the environment win
	envLoaded := godotenv.Load() == nil

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "csvclean: %v\n", err)
		return exitUsage
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if envLoaded {
		slog.Debug("loaded .env file")
	}

	if *configCheck {
		fmt.Fprintln(stdout, cfg.String())
		return exitOK
	}

	input, output := cfg.Run.InputPath, cfg.Run.OutputPath
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	ctx := logging.ContextWithRunID(context.Background(), uuid.NewString())
	logger := logging.FromContext(ctx)
	logger.Info("configuration loaded",
		"input", input,
		"output", output,
		"sink", cfg.Sink.Kind,
	)

	kinds, err := cfg.Source.Kinds()
	if err != nil {
		fmt.Fprintf(stderr, "csvclean: SOURCE_COLUMN_KINDS: %v\n", err)
		return exitUsage
	}
	src := source.NewCSVSource(source.Options{
		Delimiter:      cfg.Source.DelimiterRune(),
		MaxFileSize:    cfg.Source.MaxFileSize,
		MissingMarkers: cfg.Source.MissingMarkers,
		Kinds:          kinds,
	})

	dst, closeSink := buildSink(cfg)
	defer closeSink()

	runner := core.NewRunner(src, core.NewPipeline(), dst)
	report, err := runner.Run(ctx, input, output)
	printReport(stdout, report)

	if err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", core.StageOf(err), err)
		fmt.Fprintln(stderr, core.FormatUserError(err))
		return exitFailed
	}

	logger.Info("run completed")
	return exitOK
}

// buildSink selects the sink from configuration. The returned func releases
// any resources the sink holds.
func buildSink(cfg *config.Config) (core.Sink, func()) {
	if strings.EqualFold(cfg.Sink.Kind, config.SinkPostgres) {
		pg := sink.DialPostgresSink(cfg.Database.URL, cfg.Database.ConnectTimeout)
		return pg, pg.Close
	}
	return sink.NewCSVSink(sink.CSVOptions{
		Delimiter: cfg.Sink.DelimiterRune(),
		BOM:       cfg.Sink.BOM,
	}), func() {}
}

// printReport writes one status line per attempted stage.
func printReport(w io.Writer, report core.Report) {
	for _, s := range report.Stages {
		status := "ok"
		if !s.OK {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%-6s %-6s %s (%s)\n", s.Stage, status, s.Message, s.Duration.Round(time.Microsecond))
	}
}
