package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// manifest is icarus.toml's shape — a trimmed rendering of cmd/surge's
// surge.toml (project_manifest.go's projectConfig): just enough to supply a
// default --module_paths list when the flag is left empty, since the CLI
// itself is out of scope (spec.md §6) and doesn't need cmd/surge's full
// [run]/[package] project model.
type manifest struct {
	ModulePaths []string `toml:"module_paths"`
}

// loadManifest looks for icarus.toml starting at dir and walking up to the
// filesystem root, returning (nil, false, nil) if none is found.
func loadManifest(dir string) (*manifest, bool, error) {
	for {
		path := filepath.Join(dir, "icarus.toml")
		if _, err := os.Stat(path); err == nil {
			var m manifest
			if _, err := toml.DecodeFile(path, &m); err != nil {
				return nil, true, err
			}
			return &m, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, false, nil
		}
		dir = parent
	}
}
