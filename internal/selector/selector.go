// Package selector parses and resolves the command-line source/target
// selector syntax: a repository-relative file path (optionally a glob
// pattern), optionally followed by `::` and a pipe-separated list of
// qualified names to pick out of that file instead of every function it
// defines.
package selector

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/errors"
	"github.com/gobwas/glob"
)

// Selector is one parsed `path/to/file[::a|b|C.method]` expression.
type Selector struct {
	FilePattern string   // repository-relative, possibly a glob
	Names       []string // empty means every function in the matched file(s)
}

// Parse splits raw on the first `::`. An empty file part, or an empty
// name list following `::`, is a configuration error.
func Parse(raw string) (Selector, error) {
	filePart, namePart, hasNames := strings.Cut(raw, "::")
	filePart = strings.TrimSpace(filePart)
	if filePart == "" {
		return Selector{}, errors.New(errors.CodeConfiguration, "selector has no file path").
			WithContext(errors.CtxPath, raw)
	}
	sel := Selector{FilePattern: filepath.ToSlash(filePart)}
	if !hasNames {
		return sel, nil
	}
	names := strings.Split(namePart, "|")
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return Selector{}, errors.New(errors.CodeConfiguration, "selector has an empty name").
				WithContext(errors.CtxPath, raw)
		}
	}
	sel.Names = names
	return sel, nil
}

func hasGlobMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', ']', '{', '}':
			return true
		}
	}
	return false
}

// matchFiles returns the absolute paths, among candidateFiles, that match
// s.FilePattern resolved against repoRoot. A literal (non-glob) pattern
// matches at most the single file it names.
func (s Selector) matchFiles(repoRoot string, candidateFiles []string) ([]string, error) {
	rel := s.FilePattern
	if !hasGlobMeta(rel) {
		return []string{filepath.Join(repoRoot, filepath.FromSlash(rel))}, nil
	}

	g, err := glob.Compile(rel, '/')
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "invalid selector glob pattern").
			WithContext(errors.CtxPath, rel)
	}
	var out []string
	for _, abs := range candidateFiles {
		relToRoot, err := filepath.Rel(repoRoot, abs)
		if err != nil {
			continue
		}
		if g.Match(filepath.ToSlash(relToRoot)) {
			out = append(out, abs)
		}
	}
	return out, nil
}

// Resolve matches s against candidateFiles (the project's known absolute
// source file paths), then, for each matched file, looks up either every
// function it defines or only the requested names, via idx.
func (s Selector) Resolve(ctx context.Context, repoRoot string, idx callgraph.SourceIndex, candidateFiles []string) ([]callgraph.FunctionId, error) {
	files, err := s.matchFiles(repoRoot, candidateFiles)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.CodeConfiguration, "selector matched no files").
			WithContext(errors.CtxPath, s.FilePattern)
	}

	wantNames := make(map[string]bool, len(s.Names))
	for _, n := range s.Names {
		wantNames[n] = true
	}

	var out []callgraph.FunctionId
	for _, file := range files {
		fns, err := idx.FunctionsInFile(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("selector: %s: %w", file, err)
		}
		for _, fn := range fns {
			if len(wantNames) == 0 || wantNames[fn.Id.QualifiedName] {
				out = append(out, fn.Id)
			}
		}
	}
	return out, nil
}
