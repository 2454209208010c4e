// Command icarus drives the core over a set of source files: import each
// one, run it through the module pipeline, and report pass/fail — spec.md
// §6's CLI contract, grounded on cmd/surge's cobra-based command tree
// (cmd/surge/main.go) reduced to the one external interface the core
// actually names.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "icarus <source>...",
	Short:         "Icarus compiler core driver",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCompile,
}

func init() {
	rootCmd.Flags().String("module_paths", "", "colon-separated module search path list")
	rootCmd.Flags().String("link", "", "runtime-loaded library to link against")
	rootCmd.Flags().StringSlice("log", nil, "diagnostic categories to log")
	rootCmd.Flags().Bool("opt_ir", false, "IR-level optimisation (accepted; no passes are run in this build)")
	rootCmd.Flags().String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "icarus:", err)
		os.Exit(1)
	}
}

// modulePathList resolves --module_paths, falling back to ICARUS_MODULE_PATH
// (spec.md §6 "Environment") when the flag was left empty.
func modulePathList(flag string) []string {
	raw := flag
	if raw == "" {
		raw = os.Getenv("ICARUS_MODULE_PATH")
	}
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func useColor(flags *cobra.Command) bool {
	mode, _ := flags.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return color.NoColor == false
	}
}
