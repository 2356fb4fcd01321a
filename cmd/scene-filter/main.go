// Command scene-filter is a git content filter for engine scene files
// (*.unity, *.prefab, *.asset). The clean direction strips
// machine-generated, environment-specific fields so diffs only show real
// edits; the smudge direction passes committed content through unchanged.
// install/uninstall wire the filter into git config and attributes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scene-filter:", err)
		os.Exit(1)
	}
}
