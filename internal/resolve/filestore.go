package resolve

import (
	"context"

	"github.com/drivasperez/ts-callpath/internal/cache"
	"github.com/drivasperez/ts-callpath/internal/errors"
	"github.com/drivasperez/ts-callpath/internal/parser"
)

// FileLoader loads and caches the ParsedFile for an absolute path. A
// *fileStore satisfies it for production use; tests substitute an
// in-memory fake instead of touching a real parser or filesystem.
type FileLoader interface {
	Load(ctx context.Context, path string) (*parser.ParsedFile, error)
}

// DefaultCacheCapacity is the number of parsed files a fileStore keeps
// before evicting, plenty for the fan-out a single bounded traversal
// touches.
const DefaultCacheCapacity = 512

// fileStore reads and parses a source file on its first request, serving
// later requests for the same path out of an internal/cache.ParsedFiles
// keyed by absolute path; a file evicted from that bounded cache is read
// and parsed again on its next request. It is shared by the
// SourceIndex and the SymbolResolver, which both need to look inside
// files other than the one currently being traversed.
type fileStore struct {
	fs      FileSystem
	parser  *parser.Parser
	cache   *cache.ParsedFiles
	limiter *ReadLimiter
}

func newFileStore(fs FileSystem, p *parser.Parser, capacity int) *fileStore {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &fileStore{fs: fs, parser: p, cache: cache.NewParsedFiles(capacity)}
}

// Load returns the ParsedFile for path, parsing and caching it on first
// request.
func (s *fileStore) Load(ctx context.Context, path string) (*parser.ParsedFile, error) {
	return s.cache.Load(path, func() (*parser.ParsedFile, error) {
		if err := s.limiter.wait(ctx); err != nil {
			return nil, errors.Wrap(err, errors.CodeFile, "rate limited while reading source file").WithContext(errors.CtxPath, path)
		}
		content, err := s.fs.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeFile, "read source file").WithContext(errors.CtxPath, path)
		}
		return s.parser.Parse(ctx, path, content)
	})
}
