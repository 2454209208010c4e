package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"icarus/internal/ast"
	"icarus/internal/ctx"
	"icarus/internal/diag"
	"icarus/internal/dispatch"
	"icarus/internal/lower"
	"icarus/internal/module"
	"icarus/internal/mono"
	"icarus/internal/source"
	"icarus/internal/symbols"
	"icarus/internal/types"
	"icarus/internal/verify"
	"icarus/internal/workqueue"
)

// runCompile implements spec.md §6's CLI contract: import each source
// argument, join its importer's work, and report pass/fail — exit code is
// the count of files that failed to compile.
func runCompile(cmd *cobra.Command, args []string) error {
	moduleFlag, err := cmd.Flags().GetString("module_paths")
	if err != nil {
		return err
	}
	optIR, err := cmd.Flags().GetBool("opt_ir")
	if err != nil {
		return err
	}
	_ = optIR // no IR-level passes exist in this build; the flag has no effect.

	paths := modulePathList(moduleFlag)
	if paths == nil && len(args) > 0 {
		if m, ok, err := loadManifest(filepath.Dir(args[0])); err == nil && ok {
			paths = m.ModulePaths
		}
	}
	colored := useColor(cmd)

	failed := 0
	for _, src := range args {
		ok, bag, err := compileOne(src, paths)
		if err != nil {
			printResult(src, false, false, err.Error(), colored)
			failed++
			continue
		}
		printResult(src, ok, bag.HasWarnings(), diagnosticSummary(bag), colored)
		if !ok {
			failed++
		}
	}

	os.Exit(failed)
	return nil
}

func printResult(src string, ok, hasWarnings bool, detail string, colored bool) {
	status := "PASS"
	paint := color.New(color.FgGreen)
	switch {
	case !ok:
		status = "FAIL"
		paint = color.New(color.FgRed)
	case hasWarnings:
		status = "PASS"
		paint = color.New(color.FgYellow)
	}
	if !colored {
		paint.DisableColor()
	}
	line := fmt.Sprintf("%s %s", paint.Sprint(status), src)
	if detail != "" {
		line += ": " + detail
	}
	fmt.Println(line)
}

// diagnosticSummary renders bag's diagnostics in the CLI's single-line form,
// sorted and de-duplicated so a retry of the same failing input reports the
// same text in the same order.
func diagnosticSummary(bag *diag.Bag) string {
	if bag == nil || bag.Len() == 0 {
		return ""
	}
	bag.Sort()
	bag.Dedup()
	parts := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		parts = append(parts, fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message))
	}
	return strings.Join(parts, "; ")
}

// compileOne imports one source file (and transitively whatever it imports),
// runs verification and lowering over its top-level declarations (§4.4/§4.7),
// and reports whether it compiled without error.
func compileOne(src string, modulePaths []string) (bool, *diag.Bag, error) {
	baseDir := filepath.Dir(src)
	locator := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	strings_ := source.NewInterner()

	imp := module.NewFileImporter(baseDir, modulePaths, noFrontEnd, strings_, reporter)
	id, err := imp.Import(locator)
	if err != nil {
		return false, bag, err
	}
	if err := imp.CompleteWork(); err != nil {
		return false, bag, err
	}

	mod, ok := imp.Get(id)
	if !ok {
		return false, bag, fmt.Errorf("compile %q: module failed to load", src)
	}
	verifyModule(mod, reporter)
	return !bag.HasErrors(), bag, nil
}

// verifyModule runs the verifier and lowerer over every top-level item mod's
// files declare, per spec.md §4.4's VerifyAll entry point followed by §4.7's
// per-function lowering (driven indirectly, through the Verifier.Bodies hook
// VerifyAll's work queue calls once each function's signature is known).
func verifyModule(mod *module.Module, reporter diag.Reporter) {
	interner := types.NewInterner(mod.Builder.StringsInterner)
	symbols.BindBuiltinTypes(mod.Table, interner)

	c := ctx.New(mod.ID)
	instantiator := mono.NewInstantiator(interner)
	resolver := dispatch.New(interner, mod.Builder.StringsInterner, instantiator)

	v := verify.New(mod.Builder, interner, reporter, resolver, mod.Scope)
	v.Completer = lower.NewStructCompleter(interner)
	v.Bodies = lower.NewBodyLowerer(v, interner, mod.Builder, mod.Scope)
	v.Queue = workqueue.New(func(item workqueue.Item) {
		diag.ReportError(reporter, diag.CoreEvaluationFailure, source.Span{},
			fmt.Sprintf("%s failed for %s", item.Kind, item.Target)).Emit()
	})

	binder := symbols.NewDeclBinder(mod.Table, mod.Results)

	var allItems []ast.ItemID
	for _, fileID := range mod.Files {
		file := mod.Builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		allItems = append(allItems, file.Items...)
	}
	v.VerifyAll(c, allItems, binder)
}
