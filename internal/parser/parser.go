package parser

import (
	"context"
	"log/slog"

	"github.com/drivasperez/ts-callpath/internal/errors"
	"github.com/drivasperez/ts-callpath/internal/observability"
	"github.com/drivasperez/ts-callpath/internal/parser/grammar"
)

// Parser parses JavaScript/TypeScript/TSX source into a ParsedFile using a
// pooled tree-sitter parser per dialect.
type Parser struct {
	loader *grammar.Loader
	pools  *grammar.Pools
	log    *slog.Logger
}

// NewParser builds the grammars and their parser pools. log may be nil.
func NewParser(log *slog.Logger) *Parser {
	loader := grammar.NewLoader()
	return &Parser{
		loader: loader,
		pools:  grammar.NewPools(loader),
		log:    log,
	}
}

// Parse parses one file's source and extracts its ParsedFile. An
// unrecognized extension or a failed tree-sitter parse is reported as a
// *errors.DomainError with CodeFile, which callers fold into the
// diagnostic stream rather than treat as fatal.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*ParsedFile, error) {
	_, span := observability.Tracer().Start(ctx, "parser.Parse")
	defer span.End()

	dialect, ok := grammar.DialectForPath(path)
	if !ok {
		return nil, errors.New(errors.CodeFile, "unsupported file extension").WithContext(errors.CtxPath, path)
	}

	pool := p.pools.For(dialect)
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(source, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeFile, "tree-sitter parse failed").WithContext(errors.CtxPath, path)
	}
	defer tree.Close()

	file := Extract(source, tree.RootNode(), path)
	if p.log != nil {
		p.log.Debug("parsed file", "path", path, "dialect", string(dialect), "functions", len(file.Functions))
	}
	return file, nil
}
