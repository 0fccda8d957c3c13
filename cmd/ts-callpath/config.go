// # cmd/ts-callpath/config.go
package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// ownerRuleTOML is one CODEOWNERS-style entry as written in the config
// file: a repository-relative path pattern, optionally a glob, and the
// owners it assigns.
type ownerRuleTOML struct {
	Pattern string   `toml:"pattern"`
	Owners  []string `toml:"owners"`
}

// fileConfig is the on-disk shape of ts-callpath.toml. Every field has a
// sane default so an empty or partial file is usable.
type fileConfig struct {
	RepoRoot string `toml:"repo_root"`

	Resolver struct {
		BaseDir         string            `toml:"base_dir"`
		Aliases         map[string]string `toml:"aliases"`
		IncludeExternal bool              `toml:"include_external"`
	} `toml:"resolver"`

	Bounds struct {
		MaxDepth int `toml:"max_depth"`
		MaxNodes int `toml:"max_nodes"`
	} `toml:"bounds"`

	Sources []string `toml:"sources"`
	Targets []string `toml:"targets"`

	Codeowners []ownerRuleTOML `toml:"codeowners"`

	Editor  string `toml:"editor"`
	OutDot  string `toml:"out_dot"`
	OutJSON string `toml:"out_json"`

	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// loadConfig decodes path, or returns the all-defaults config when path
// does not exist — a missing ts-callpath.toml is not an error, since every
// field can also be supplied on the command line.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
