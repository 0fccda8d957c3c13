// # cmd/ts-callpath/discover.go
package main

import (
	"io/fs"
	"path/filepath"
)

var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// discoverFiles walks repoRoot for every JS/TS source file, skipping the
// usual dependency/build directories. Its output is the candidate-file
// list a glob selector or CODEOWNERS pattern matches against.
func discoverFiles(repoRoot string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExtensions[filepath.Ext(path)] {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
