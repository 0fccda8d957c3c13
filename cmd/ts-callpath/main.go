// # cmd/ts-callpath/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/observability"
	"go.opentelemetry.io/otel"
)

const version = "0.1.0"

// stringList collects repeated occurrences of a flag, e.g.
// -source a.ts::main -source b.ts::helper.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

var (
	configPath  = flag.String("config", "./ts-callpath.toml", "Path to config file")
	repoRootFlg = flag.String("repo-root", "", "Repository root (overrides config)")
	outDotFlg   = flag.String("out-dot", "", "Write a Graphviz digraph to this path (overrides config)")
	outJSONFlg  = flag.String("out-json", "", "Write the JSON interchange document to this path (overrides config)")
	uiFlag      = flag.Bool("ui", false, "Show a progress spinner while the graph builds")
	verbose     = flag.Bool("verbose", false, "Enable verbose (debug) logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
	sources     stringList
	targets     stringList
)

func main() {
	flag.Var(&sources, "source", "Source selector (path/to/file[::a|b]); repeatable")
	flag.Var(&targets, "target", "Target selector (path/to/file[::a|b]); repeatable")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ts-callpath v%s\n", version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	if *repoRootFlg != "" {
		cfg.RepoRoot = *repoRootFlg
	}
	if cfg.RepoRoot == "" {
		cfg.RepoRoot, _ = os.Getwd()
	}
	abs, err := filepath.Abs(cfg.RepoRoot)
	if err == nil {
		cfg.RepoRoot = abs
	}
	if *outDotFlg != "" {
		cfg.OutDot = *outDotFlg
	}
	if *outJSONFlg != "" {
		cfg.OutJSON = *outJSONFlg
	}
	if len(sources) > 0 {
		cfg.Sources = sources
	}
	if len(targets) > 0 {
		cfg.Targets = targets
	}

	ctx := context.Background()
	if cfg.OTLPEndpoint != "" {
		tp, err := observability.NewTracerProvider(ctx, observability.TracerProviderOptions{
			OTLPEndpoint: cfg.OTLPEndpoint,
			ServiceName:  "ts-callpath",
		})
		if err != nil {
			slog.Error("failed to start tracer provider", "error", err)
			os.Exit(1)
		}
		otel.SetTracerProvider(tp)
		defer tp.Shutdown(ctx)
	}

	if err := run(ctx, cfg, logger, *uiFlag); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
