package resolve

import (
	"testing"

	"github.com/drivasperez/ts-callpath/internal/config"
)

// fakeFS is an in-memory FileSystem: a fixed set of regular files plus an
// optional symlink map from a candidate path to where it actually resolves.
type fakeFS struct {
	files    map[string]bool
	symlinks map[string]string
}

func newFakeFS(files ...string) *fakeFS {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	return &fakeFS{files: set, symlinks: make(map[string]string)}
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) { return nil, nil }

func (f *fakeFS) FileExists(path string) bool { return f.files[path] }

func (f *fakeFS) EvalSymlinks(path string) (string, error) {
	if resolved, ok := f.symlinks[path]; ok {
		return resolved, nil
	}
	return path, nil
}

func TestModuleResolver_RelativeSpecifierProbesExtensions(t *testing.T) {
	fs := newFakeFS("/repo/src/helper.ts")
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	res, ok := r.Resolve("/repo/src/main.ts", "./helper")
	if !ok {
		t.Fatal("expected resolution")
	}
	if res.Path != "/repo/src/helper.ts" {
		t.Errorf("got %q", res.Path)
	}
}

func TestModuleResolver_RelativeSpecifierFallsBackToIndexFile(t *testing.T) {
	fs := newFakeFS("/repo/src/widgets/index.tsx")
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	res, ok := r.Resolve("/repo/src/main.ts", "./widgets")
	if !ok {
		t.Fatal("expected resolution")
	}
	if res.Path != "/repo/src/widgets/index.tsx" {
		t.Errorf("got %q", res.Path)
	}
}

func TestModuleResolver_UnresolvedRelativeSpecifierFails(t *testing.T) {
	fs := newFakeFS()
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	if _, ok := r.Resolve("/repo/src/main.ts", "./missing"); ok {
		t.Fatal("expected resolution to fail")
	}
}

func TestModuleResolver_AliasLongestPrefixWins(t *testing.T) {
	fs := newFakeFS("/repo/src/app/components/widget.ts")
	r := NewModuleResolverWithFS(config.ResolverConfig{
		BaseDir: "/repo",
		Aliases: map[string]string{
			"@app/":            "src/app",
			"@app/components/": "src/app/components",
		},
	}, fs)

	res, ok := r.Resolve("/repo/src/other.ts", "@app/components/widget")
	if !ok {
		t.Fatal("expected resolution")
	}
	if res.Path != "/repo/src/app/components/widget.ts" {
		t.Errorf("got %q, expected the longer alias prefix to win", res.Path)
	}
}

func TestModuleResolver_BareSpecifierUnderNodeModulesRejectedByDefault(t *testing.T) {
	fs := newFakeFS("/repo/node_modules/lodash/index.js")
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	if _, ok := r.Resolve("/repo/src/main.ts", "lodash"); ok {
		t.Fatal("expected an external package to be rejected when IncludeExternal is off")
	}
}

func TestModuleResolver_BareSpecifierUpgradedToExternalWhenEnabled(t *testing.T) {
	fs := newFakeFS("/repo/node_modules/lodash/index.js")
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo", IncludeExternal: true}, fs)

	res, ok := r.Resolve("/repo/src/main.ts", "lodash")
	if !ok {
		t.Fatal("expected resolution")
	}
	if !res.IsExternal {
		t.Error("expected IsExternal")
	}
	if res.Path != "<external>::lodash" {
		t.Errorf("got %q", res.Path)
	}
}

func TestModuleResolver_WorkspaceSymlinkIntoProjectTreeIsAdmitted(t *testing.T) {
	fs := newFakeFS("/repo/node_modules/@acme/shared/index.ts")
	fs.symlinks["/repo/node_modules/@acme/shared/index.ts"] = "/repo/packages/shared/index.ts"
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	res, ok := r.Resolve("/repo/src/main.ts", "@acme/shared")
	if !ok {
		t.Fatal("expected the monorepo workspace link to be admitted")
	}
	if res.Path != "/repo/packages/shared/index.ts" {
		t.Errorf("got %q", res.Path)
	}
}

func TestModuleResolver_SymlinkLandingBackInNodeModulesIsRejected(t *testing.T) {
	fs := newFakeFS("/repo/node_modules/left-pad/index.js")
	fs.symlinks["/repo/node_modules/left-pad/index.js"] = "/repo/node_modules/.store/left-pad/index.js"
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	if _, ok := r.Resolve("/repo/src/main.ts", "left-pad"); ok {
		t.Fatal("expected a symlink that still resolves inside node_modules to be rejected")
	}
}

func TestModuleResolver_AbsoluteSpecifierProbesDirectly(t *testing.T) {
	fs := newFakeFS("/opt/shared/util.js")
	r := NewModuleResolverWithFS(config.ResolverConfig{BaseDir: "/repo"}, fs)

	res, ok := r.Resolve("/repo/src/main.ts", "/opt/shared/util")
	if !ok {
		t.Fatal("expected resolution")
	}
	if res.Path != "/opt/shared/util.js" {
		t.Errorf("got %q", res.Path)
	}
}
