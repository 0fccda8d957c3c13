package grammar

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Pool recycles tree-sitter parser instances for one grammar to avoid the
// per-file allocation cost of sitter.NewParser.
//
// Usage:
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
//
// Safe for concurrent use.
type Pool struct {
	lang *sitter.Language
	pool sync.Pool
}

// NewPool creates a pool for lang. lang must remain valid for the pool's
// lifetime.
func NewPool(lang *sitter.Language) *Pool {
	p := &Pool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get retrieves a parser configured for the pool's language.
func (p *Pool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	sp.SetLanguage(p.lang)
	return sp
}

// Put returns sp to the pool after resetting it so no reference to a
// previous parse tree survives. Callers must not use sp after this call.
func (p *Pool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.pool.Put(sp)
}

// Pools holds one Pool per supported dialect.
type Pools struct {
	byDialect map[Dialect]*Pool
}

// NewPools builds a Pool for every dialect the Loader knows.
func NewPools(loader *Loader) *Pools {
	pools := &Pools{byDialect: make(map[Dialect]*Pool, 3)}
	for _, d := range []Dialect{JavaScript, TypeScript, TSX} {
		pools.byDialect[d] = NewPool(loader.Language(d))
	}
	return pools
}

// For returns the Pool for dialect.
func (p *Pools) For(dialect Dialect) *Pool {
	return p.byDialect[dialect]
}
