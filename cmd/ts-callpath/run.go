// # cmd/ts-callpath/run.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/config"
	"github.com/drivasperez/ts-callpath/internal/errors"
	"github.com/drivasperez/ts-callpath/internal/layout"
	"github.com/drivasperez/ts-callpath/internal/observability"
	"github.com/drivasperez/ts-callpath/internal/parser"
	"github.com/drivasperez/ts-callpath/internal/render"
	"github.com/drivasperez/ts-callpath/internal/resolve"
	"github.com/drivasperez/ts-callpath/internal/selector"
)

// run is the whole pipeline: discover files, resolve the configured
// source/target selectors, build and optionally slice the call graph, lay
// it out, render it, and write the configured outputs.
func run(ctx context.Context, cfg fileConfig, logger *slog.Logger, showUI bool) error {
	if len(cfg.Sources) == 0 {
		return errors.New(errors.CodeConfiguration, "no sources configured; set [sources] in the config file or pass -source")
	}

	var progressCh chan string
	var sink observability.Sink
	diagCh := make(chan string, 64)
	sink = observability.NewChannelSink(diagCh)
	go func() {
		for msg := range diagCh {
			logger.Debug(msg)
		}
	}()

	if showUI {
		progressCh = make(chan string, 8)
	}
	report := func(status string) {
		logger.Debug(status)
		if progressCh != nil {
			progressCh <- status
		}
	}

	var doc render.Document
	var dot string

	work := func() (int, int, error) {
		report("discovering source files")
		repoRoot := cfg.RepoRoot
		files, err := discoverFiles(repoRoot)
		if err != nil {
			return 0, 0, errors.Wrap(err, errors.CodeFile, "discover source files")
		}

		resolverCfg := config.ResolverConfig{
			BaseDir:         firstNonEmpty(cfg.Resolver.BaseDir, repoRoot),
			Aliases:         cfg.Resolver.Aliases,
			IncludeExternal: cfg.Resolver.IncludeExternal,
		}
		idx := resolve.NewIndex(resolverCfg, parser.NewParser(logger))

		report("resolving source and target selectors")
		sourceIds, err := resolveSelectors(ctx, cfg.Sources, repoRoot, idx, files)
		if err != nil {
			return 0, 0, err
		}
		targetIds, err := resolveSelectors(ctx, cfg.Targets, repoRoot, idx, files)
		if err != nil {
			return 0, 0, err
		}

		bounds := callgraph.DefaultBounds
		if cfg.Bounds.MaxDepth > 0 {
			bounds.MaxDepth = cfg.Bounds.MaxDepth
		}
		if cfg.Bounds.MaxNodes > 0 {
			bounds.MaxNodes = cfg.Bounds.MaxNodes
		}

		report("building call graph")
		tracer := observability.Tracer()
		buildCtx, span := tracer.Start(ctx, "ts_callpath.build")
		builder := callgraph.NewBuilder(idx, bounds, sink)
		g := builder.BuildAll(buildCtx, sourceIds)
		span.End()

		if len(targetIds) > 0 {
			report("slicing to targets")
			g = callgraph.Slice(g, sourceIds, targetIds)
		}

		observability.GraphNodesTotal.Set(float64(g.NodeCount()))
		observability.GraphEdgesTotal.Set(float64(g.EdgeCount()))

		report("computing layout")
		owners := ownerRules(repoRoot, cfg.Codeowners)
		sourceSet := make(map[callgraph.FunctionId]bool, len(sourceIds))
		for _, id := range sourceIds {
			sourceSet[id] = true
		}
		_, layoutSpan := tracer.Start(ctx, "ts_callpath.layout")
		result := layout.Layout(g, layout.Options{
			Direction: layout.TopToBottom,
			Sources:   sourceSet,
			Owners:    owners,
		})
		layoutSpan.End()
		_ = result // geometry consumed by an interactive frontend, not this CLI

		report("rendering output")
		codeowners := matchCodeowners(files, owners)
		doc = render.BuildDocument(g, repoRoot, sourceIds, targetIds, nil, codeowners, cfg.Editor)
		dot = render.WriteDOT(doc)

		return g.NodeCount(), g.EdgeCount(), nil
	}

	var nodes, edges int
	var workErr error
	if showUI {
		nodes, edges, workErr = runWithSpinner(progressCh, work)
	} else {
		nodes, edges, workErr = work()
	}
	if progressCh != nil {
		close(progressCh)
	}
	close(diagCh)
	if workErr != nil {
		return workErr
	}

	if cfg.OutJSON != "" {
		data, err := render.MarshalJSON(doc)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "marshal JSON interchange document")
		}
		if err := os.WriteFile(cfg.OutJSON, data, 0644); err != nil {
			return errors.Wrap(err, errors.CodeFile, "write JSON output").WithContext(errors.CtxPath, cfg.OutJSON)
		}
	}
	if cfg.OutDot != "" {
		if err := os.WriteFile(cfg.OutDot, []byte(dot), 0644); err != nil {
			return errors.Wrap(err, errors.CodeFile, "write DOT output").WithContext(errors.CtxPath, cfg.OutDot)
		}
	}

	printSummary(nodes, edges, cfg)
	return nil
}

func resolveSelectors(ctx context.Context, raw []string, repoRoot string, idx *resolve.Index, candidateFiles []string) ([]callgraph.FunctionId, error) {
	var out []callgraph.FunctionId
	for _, r := range raw {
		sel, err := selector.Parse(r)
		if err != nil {
			return nil, err
		}
		ids, err := sel.Resolve(ctx, repoRoot, idx, candidateFiles)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return out, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func printSummary(nodes, edges int, cfg fileConfig) {
	fmt.Printf("📊 call graph: %d functions, %d calls\n", nodes, edges)
	if cfg.OutDot != "" {
		fmt.Printf("   dot  -> %s\n", cfg.OutDot)
	}
	if cfg.OutJSON != "" {
		fmt.Printf("   json -> %s\n", cfg.OutJSON)
	}
	if cfg.OutDot == "" && cfg.OutJSON == "" {
		fmt.Println("   (no out_dot/out_json configured; nothing written to disk)")
	}
}
