// Package config holds the plain Go structs the core packages accept as
// already-decoded configuration. Nothing here touches the filesystem —
// that belongs to cmd/ts-callpath, which decodes the on-disk TOML file
// and builds these structs.
package config

// ResolverConfig is project-configured module resolution: a base
// directory specifiers are resolved against, path aliases mirroring a
// tsconfig "paths" table, and whether an unresolved non-relative
// specifier is admitted into the graph as a synthetic external node.
type ResolverConfig struct {
	BaseDir         string
	Aliases         map[string]string
	IncludeExternal bool
}

// ProjectSettings bundles everything the core needs to know about one
// project under analysis.
type ProjectSettings struct {
	RepoRoot string
	Resolver ResolverConfig
}

// DefaultResolverConfig returns the resolver configuration used when no
// project settings file is supplied: resolve against repoRoot, no
// aliases, external nodes disabled.
func DefaultResolverConfig(repoRoot string) ResolverConfig {
	return ResolverConfig{BaseDir: repoRoot}
}

// DefaultProjectSettings returns the project settings used when no
// settings file is supplied.
func DefaultProjectSettings(repoRoot string) ProjectSettings {
	return ProjectSettings{RepoRoot: repoRoot, Resolver: DefaultResolverConfig(repoRoot)}
}
