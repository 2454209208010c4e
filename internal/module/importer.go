package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"icarus/internal/ast"
	"icarus/internal/diag"
	"icarus/internal/source"
	"icarus/internal/symbols"
)

// ParseFunc parses one source file's content into builder, returning the
// parsed file's ast.FileID. Injected rather than called directly because
// this core has no lexer/parser package of its own — the AST is handed in
// by an external front end (SPEC_FULL.md §0) — so Importer stays buildable
// without one, the same way the teacher's `FileImporter[ModuleType]`
// template (original_source/module/importer.h) is parameterised over the
// module type rather than hardcoding a parser.
type ParseFunc func(content []byte, path string, fileID source.FileID, builder *ast.Builder, reporter diag.Reporter) (ast.FileID, error)

// Importer schedules module imports requested from an `import` expression,
// spec.md §6 / the teacher's `module.Importer` C++ interface: resolve a
// locator to a ModuleId, hand back the resolved Module, and let the caller
// join all in-flight work before any cross-module lookup.
type Importer interface {
	Import(locator string) (ID, error)
	Get(id ID) (*Module, bool)
	CompleteWork() error
}

// FileImporter resolves locators against BaseDir and then each of
// ModulePaths (the ICARUS_MODULE_PATH search list), parsing and resolving
// each newly discovered module concurrently via an errgroup — spec.md §5's
// "the importer may load sibling modules concurrently… joins them before
// any cross-module lookup", grounded on the teacher's use of
// golang.org/x/sync/errgroup in internal/driver (e.g. parallel_diagnose.go)
// in place of the original's std::thread/join pool.
type FileImporter struct {
	BaseDir     string
	ModulePaths []string
	Parse       ParseFunc
	Strings     *source.Interner
	Reporter    diag.Reporter

	mu      sync.Mutex
	byPath  map[string]ID
	modules map[ID]*Module
	done    map[ID]chan struct{}
	nextID  ID
	group   errgroup.Group
}

// NewFileImporter builds a FileImporter rooted at baseDir, additionally
// searching modulePaths (in order) for a locator BaseDir doesn't resolve.
func NewFileImporter(baseDir string, modulePaths []string, parse ParseFunc, strings *source.Interner, reporter diag.Reporter) *FileImporter {
	return &FileImporter{
		BaseDir:     baseDir,
		ModulePaths: modulePaths,
		Parse:       parse,
		Strings:     strings,
		Reporter:    reporter,
		byPath:      make(map[string]ID),
		modules:     make(map[ID]*Module),
		done:        make(map[ID]chan struct{}),
	}
}

// Import resolves locator to a file path, allocating a fresh ID and
// scheduling its parse+resolve on first request; a repeated locator
// returns the already-allocated ID without re-scheduling work, matching
// the teacher importer's `try_emplace` memoization.
func (imp *FileImporter) Import(locator string) (ID, error) {
	path, err := resolveModulePath(locator, imp.BaseDir, imp.ModulePaths)
	if err != nil {
		return NoID, err
	}

	imp.mu.Lock()
	if id, ok := imp.byPath[path]; ok {
		imp.mu.Unlock()
		return id, nil
	}
	imp.nextID++
	id := imp.nextID
	imp.byPath[path] = id
	done := make(chan struct{})
	imp.done[id] = done
	imp.mu.Unlock()

	imp.group.Go(func() error {
		defer close(done)
		mod, err := imp.load(id, locator, path)
		if err != nil {
			return fmt.Errorf("import %q: %w", locator, err)
		}
		imp.mu.Lock()
		imp.modules[id] = mod
		imp.mu.Unlock()
		return nil
	})

	return id, nil
}

// awaitImport blocks until id's load goroutine finishes, success or failure,
// without joining the whole group: load() runs inside one of the group's own
// goroutines when resolving a dependency's exports (loadDependencyExports),
// and group.Wait() there would deadlock against its own still-running call.
func (imp *FileImporter) awaitImport(id ID) {
	imp.mu.Lock()
	done := imp.done[id]
	imp.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (imp *FileImporter) load(id ID, locator, path string) (*Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fs := source.NewFileSetWithBase(imp.BaseDir)
	fileID := fs.Add(path, content, 0)

	builder := ast.NewBuilder(ast.Hints{}, imp.Strings)
	astFile, err := imp.Parse(content, path, fileID, builder, imp.Reporter)
	if err != nil {
		return nil, err
	}

	moduleExports, err := imp.loadDependencyExports(builder, astFile, locator)
	if err != nil {
		return nil, err
	}

	table := symbols.NewTable(symbols.Hints{}, imp.Strings)
	result := symbols.ResolveFile(builder, astFile, &symbols.ResolveOptions{
		Table:         table,
		Reporter:      imp.Reporter,
		ModulePath:    locator,
		BaseDir:       imp.BaseDir,
		FilePath:      path,
		ModuleExports: moduleExports,
	})

	exports := symbols.CollectExports(builder, result, locator)
	scope := symbols.NewVerifyScope(builder, table, []symbols.Result{result})

	return &Module{
		ID:      id,
		Path:    locator,
		Builder: builder,
		Files:   []ast.FileID{astFile},
		Table:   table,
		Results: []symbols.Result{result},
		Exports: exports,
		Scope:   scope,
	}, nil
}

// loadDependencyExports scans astFile's own `import` items, loads each
// locator they name (joining already in-flight work via awaitImport rather
// than re-parsing), and returns their public symbols keyed the same way
// resolve_imports.go's resolveImportModulePath will key them — so a plain
// `import foo; foo.bar()` in this file resolves against foo's real exports
// instead of always falling through to "module member not found". A
// dependency that fails to load (bad path, parse error) is simply absent
// from the map; its own failure is reported through the Importer's normal
// error path, not duplicated here.
func (imp *FileImporter) loadDependencyExports(builder *ast.Builder, astFile ast.FileID, locator string) (map[string]*symbols.ModuleExports, error) {
	file := builder.Files.Get(astFile)
	if file == nil || builder.StringsInterner == nil {
		return nil, nil
	}

	type pending struct {
		key string
		id  ID
	}
	seen := make(map[string]struct{})
	var pendings []pending

	for _, itemID := range file.Items {
		item := builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemImport {
			continue
		}
		importItem, ok := builder.Items.Import(itemID)
		if !ok || importItem == nil || len(importItem.Module) == 0 {
			continue
		}
		segs := make([]string, 0, len(importItem.Module))
		for _, seg := range importItem.Module {
			segs = append(segs, builder.StringsInterner.MustLookup(seg))
		}
		key := symbols.NormalizeImportPath(locator, imp.BaseDir, segs)
		if key == "" || key == locator {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		id, err := imp.Import(strings.Join(segs, "/"))
		if err != nil {
			continue
		}
		pendings = append(pendings, pending{key: key, id: id})
	}
	if len(pendings) == 0 {
		return nil, nil
	}

	exports := make(map[string]*symbols.ModuleExports, len(pendings))
	for _, p := range pendings {
		imp.awaitImport(p.id)
		if mod, ok := imp.Get(p.id); ok && mod != nil && mod.Exports != nil {
			exports[p.key] = mod.Exports
		}
	}
	return exports, nil
}

// Get returns the module registered under id, or false if its import is
// still pending (call CompleteWork first) or id is unknown.
func (imp *FileImporter) Get(id ID) (*Module, bool) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	mod, ok := imp.modules[id]
	return mod, ok
}

// CompleteWork joins every in-flight Import, returning the first error (if
// any) any of them produced.
func (imp *FileImporter) CompleteWork() error {
	return imp.group.Wait()
}

// resolveModulePath looks up locator as a single ".sg" file (or, failing
// that, a directory of them) under base, then under each of paths in
// order — the Go rendering of original_source/module/importer.h's
// ResolveModulePath plus the teacher's ICARUS_MODULE_PATH lookup-paths
// idiom (driver/module_mapping.go's search-path list).
func resolveModulePath(locator string, base string, paths []string) (string, error) {
	candidates := append([]string{base}, paths...)
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		direct := filepath.Join(dir, filepath.FromSlash(locator)+".sg")
		if info, err := os.Stat(direct); err == nil && !info.IsDir() {
			return direct, nil
		}
		asDir := filepath.Join(dir, filepath.FromSlash(locator))
		if info, err := os.Stat(asDir); err == nil && info.IsDir() {
			if entry, ok := firstSGFile(asDir); ok {
				return entry, nil
			}
		}
	}
	return "", fmt.Errorf("module %q not found under %v", locator, candidates)
}

func firstSGFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sg" {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}
