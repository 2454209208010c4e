// Package project normalises and resolves Icarus module-path strings: the
// "a/b" locator form used by `import` expressions (spec.md §6) and by
// symbols.ModuleExports keys, independent of any filesystem layout.
package project

import (
	"errors"
	"fmt"
	"strings"
)

// NormalizeModulePath reduces path to its canonical "a/b" form: strips a
// trailing ".sg" extension, collapses backslashes to forward slashes, and
// rejects empty, ".", or ".." segments.
func NormalizeModulePath(path string) (string, error) {
	const ext = ".sg"
	if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
		path = path[:len(path)-len(ext)]
	}
	for path != "" && (path[0] == '/' || path[0] == '\\') {
		path = path[1:]
	}

	var cleaned []string
	curr := ""
	for _, r := range path {
		if r == '\\' || r == '/' {
			if curr == "" {
				return "", errors.New("invalid module path")
			}
			cleaned = append(cleaned, curr)
			curr = ""
		} else {
			curr += string(r)
		}
	}
	if curr != "" {
		cleaned = append(cleaned, curr)
	}
	if len(cleaned) == 0 {
		return "", errors.New("invalid module path")
	}
	for _, seg := range cleaned {
		if seg == "" || seg == "." || seg == ".." {
			return "", errors.New("invalid module path")
		}
	}
	return strings.Join(cleaned, "/"), nil
}

// ResolveImportPath normalises an import's segments (which may include "."
// and ".." relative markers) against modulePath's own directory and
// basePath, producing the canonical locator used to key
// symbols.ModuleExports and the work an Importer schedules. "stdlib" and
// "core" roots are always treated as absolute.
func ResolveImportPath(modulePath, basePath string, segments []string) (string, error) {
	if len(segments) == 0 {
		return "", errors.New("empty import path")
	}

	joined := strings.Join(segments, "/")
	if segments[0] == "stdlib" || segments[0] == "core" {
		return NormalizeModulePath(joined)
	}

	var baseSegments []string
	if basePath != "" {
		clean := strings.Trim(basePath, "/")
		if clean != "" {
			baseSegments = strings.Split(strings.ReplaceAll(clean, "\\", "/"), "/")
		}
	}

	var moduleDir []string
	if modulePath != "" {
		parts := strings.Split(modulePath, "/")
		if len(parts) > 1 {
			moduleDir = append(moduleDir, parts[:len(parts)-1]...)
		}
	}

	target := make([]string, 0, len(moduleDir)+len(segments))
	target = append(target, moduleDir...)

	useRelative := segments[0] == "." || segments[0] == ".."
	if !useRelative {
		absolute := false
		if len(baseSegments) > 0 && len(segments) >= len(baseSegments) {
			absolute = true
			for i := range baseSegments {
				if segments[i] != baseSegments[i] {
					absolute = false
					break
				}
			}
		}
		if !absolute && len(segments) >= len(moduleDir) {
			absolute = true
			for i := range moduleDir {
				if moduleDir[i] != segments[i] {
					absolute = false
					break
				}
			}
		}
		if !absolute && len(moduleDir) > 0 {
			parent := moduleDir[:len(moduleDir)-1]
			if len(parent) > 0 && len(segments) >= len(parent) {
				absolute = true
				for i := range parent {
					if parent[i] != segments[i] {
						absolute = false
						break
					}
				}
			}
		}
		if absolute {
			target = target[:0]
		}
	}

	for _, seg := range segments {
		switch seg {
		case "":
			return "", errors.New("empty import segment")
		case ".":
			continue
		case "..":
			if len(target) == 0 {
				return "", errors.New("import path escapes project root")
			}
			target = target[:len(target)-1]
		default:
			if strings.Contains(seg, "/") {
				return "", fmt.Errorf("import segment %q contains '/'", seg)
			}
			target = append(target, seg)
		}
	}

	if len(target) == 0 {
		return "", errors.New("import resolves to empty path")
	}

	return NormalizeModulePath(strings.Join(target, "/"))
}
