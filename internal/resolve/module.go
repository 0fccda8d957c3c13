package resolve

import (
	"path/filepath"
	"strings"

	"github.com/drivasperez/ts-callpath/internal/callgraph"
	"github.com/drivasperez/ts-callpath/internal/config"
)

// sourceExtensions is the probe order for an extensionless specifier:
// TypeScript before TSX before plain JavaScript before JSX, matching how a
// bundler resolving a mixed TS/JS tree would order the same probe.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Resolution is one resolved module specifier: the absolute path it names,
// and whether it was admitted as a synthetic external node rather than a
// file the resolver actually found.
type Resolution struct {
	Path       string
	IsExternal bool
}

// ModuleResolver maps an import/require specifier, read from some
// requesting file, to an absolute path on disk, per spec.md §4.2's three
// ordered rules: configured base-dir/alias resolution (rejecting anything
// that resolves outside the project tree unless it is reached through a
// symlink, admitting monorepo workspace links), relative-specifier
// extension probing, and otherwise leaving the specifier unresolved or
// upgrading it to a synthetic external descriptor.
type ModuleResolver struct {
	cfg config.ResolverConfig
	fs  FileSystem
}

// NewModuleResolver returns a ModuleResolver configured by cfg, resolving
// against the real filesystem.
func NewModuleResolver(cfg config.ResolverConfig) *ModuleResolver {
	return NewModuleResolverWithFS(cfg, NewOSFileSystem())
}

// NewModuleResolverWithFS returns a ModuleResolver resolving through fs,
// letting tests substitute an in-memory filesystem.
func NewModuleResolverWithFS(cfg config.ResolverConfig, fs FileSystem) *ModuleResolver {
	return &ModuleResolver{cfg: cfg, fs: fs}
}

// IncludeExternal reports whether this resolver is configured to upgrade
// an otherwise-unresolved bare specifier into a synthetic external node.
func (r *ModuleResolver) IncludeExternal() bool {
	return r.cfg.IncludeExternal
}

// Resolve resolves specifier as it appears in an import/require/re-export
// statement inside fromFile.
func (r *ModuleResolver) Resolve(fromFile, specifier string) (Resolution, bool) {
	if filepath.IsAbs(specifier) {
		if p, ok := r.probeExtensions(specifier); ok {
			return Resolution{Path: p}, true
		}
		return Resolution{}, false
	}

	if isRelativeSpecifier(specifier) {
		base := filepath.Join(filepath.Dir(fromFile), specifier)
		if p, ok := r.probeExtensions(base); ok {
			return Resolution{Path: p}, true
		}
		return Resolution{}, false
	}

	// Rule 1: configured base dir, then path aliases (longest prefix wins),
	// then the project's package-install directory. All three land outside
	// the file actually being read, so a hit against any of them must pass
	// the external-admission check before it is trusted.
	if candidate, ok := r.resolveConfigured(specifier); ok {
		if admitted, ok := r.admitWorkspaceSymlink(candidate); ok {
			return Resolution{Path: admitted}, true
		}
	}

	// Rule 3: neither relative nor admitted as a project file. Upgrade to a
	// synthetic external node only if the project settings opted in;
	// otherwise the specifier is simply unresolved.
	if r.cfg.IncludeExternal {
		return Resolution{Path: callgraph.ExternalFilePrefix + specifier, IsExternal: true}, true
	}
	return Resolution{}, false
}

func (r *ModuleResolver) resolveConfigured(specifier string) (string, bool) {
	if p, ok := r.probeExtensions(filepath.Join(r.cfg.BaseDir, specifier)); ok {
		return p, true
	}
	if remainder, targetDir, ok := r.matchAlias(specifier); ok {
		base := filepath.Join(r.cfg.BaseDir, targetDir, remainder)
		if p, ok := r.probeExtensions(base); ok {
			return p, true
		}
	}
	base := filepath.Join(r.cfg.BaseDir, "node_modules", specifier)
	return r.probeExtensions(base)
}

// matchAlias finds the longest configured alias key that prefixes
// specifier, mirroring a tsconfig "paths" table where more specific
// prefixes take priority over shorter ones.
func (r *ModuleResolver) matchAlias(specifier string) (remainder, targetDir string, ok bool) {
	var bestKey string
	for key := range r.cfg.Aliases {
		if strings.HasPrefix(specifier, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey == "" {
		return "", "", false
	}
	return strings.TrimPrefix(specifier, bestKey), r.cfg.Aliases[bestKey], true
}

// admitWorkspaceSymlink accepts candidate as a resolved project file only
// if it lies inside the configured base directory once symlinks are
// followed, and the resolved path itself does not run back through a
// package-manager install directory: a monorepo workspace package linked
// into node_modules is admitted, a genuinely external package is not.
func (r *ModuleResolver) admitWorkspaceSymlink(candidate string) (string, bool) {
	resolved, err := r.fs.EvalSymlinks(candidate)
	if err != nil {
		return "", false
	}
	if !withinDir(resolved, r.cfg.BaseDir) {
		return "", false
	}
	if containsPathSegment(resolved, "node_modules") {
		return "", false
	}
	return resolved, true
}

func (r *ModuleResolver) probeExtensions(base string) (string, bool) {
	if hasSourceExtension(base) && r.fs.FileExists(base) {
		return base, true
	}
	for _, ext := range sourceExtensions {
		if candidate := base + ext; r.fs.FileExists(candidate) {
			return candidate, true
		}
	}
	for _, ext := range sourceExtensions {
		if candidate := filepath.Join(base, "index"+ext); r.fs.FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func hasSourceExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, known := range sourceExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func containsPathSegment(path, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == segment {
			return true
		}
	}
	return false
}
