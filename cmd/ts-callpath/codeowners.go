// # cmd/ts-callpath/codeowners.go
package main

import (
	"path/filepath"

	"github.com/drivasperez/ts-callpath/internal/layout"
	"github.com/gobwas/glob"
)

func hasGlobMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', ']', '{', '}':
			return true
		}
	}
	return false
}

// ownerRules converts the config file's repository-relative patterns into
// layout.OwnerRule, absolute so they match the graph's absolute file
// paths directly.
func ownerRules(repoRoot string, rules []ownerRuleTOML) []layout.OwnerRule {
	out := make([]layout.OwnerRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, layout.OwnerRule{
			Pattern: filepath.Join(repoRoot, filepath.FromSlash(r.Pattern)),
			Owners:  r.Owners,
		})
	}
	return out
}

// matchCodeowners returns, for every file in candidateFiles, the owners of
// the last matching rule (CODEOWNERS last-match-wins), keyed by absolute
// path so render.BuildDocument can rewrite the key to repo-relative itself.
func matchCodeowners(candidateFiles []string, rules []layout.OwnerRule) map[string][]string {
	if len(rules) == 0 {
		return nil
	}
	type compiled struct {
		literal string
		g       glob.Glob
		owners  []string
	}
	compiledRules := make([]compiled, 0, len(rules))
	for _, r := range rules {
		if hasGlobMeta(r.Pattern) {
			g, err := glob.Compile(r.Pattern, '/')
			if err != nil {
				continue
			}
			compiledRules = append(compiledRules, compiled{g: g, owners: r.Owners})
			continue
		}
		compiledRules = append(compiledRules, compiled{literal: r.Pattern, owners: r.Owners})
	}

	out := make(map[string][]string)
	for _, file := range candidateFiles {
		var owners []string
		for _, r := range compiledRules {
			if r.g != nil {
				if r.g.Match(file) {
					owners = r.owners
				}
				continue
			}
			if r.literal == file {
				owners = r.owners
			}
		}
		if len(owners) > 0 {
			out[file] = owners
		}
	}
	return out
}
