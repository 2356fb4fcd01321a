package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapestone/scene-filter/internal/gitconfig"
	"github.com/shapestone/scene-filter/pkg/filter"
)

const filterName = "scene"

// attrPatterns are the scene file extensions the engine serializes in the
// dialect this filter understands.
var attrPatterns = []string{"*.unity", "*.prefab", "*.asset"}

func newInstallCmd() *cobra.Command {
	var (
		scopeFlags   scopeSelector
		version      int
		sortDocs     bool
		noConfig     bool
		noAttributes bool
	)
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Wire the filter into git config and attributes",
		Long: `Registers the filter driver (filter.scene.clean/smudge/required)
in git config at the chosen scope and adds filter=scene attribute lines for
the scene file patterns. Both steps are idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope := scopeFlags.scope()
			if !noConfig {
				if err := installConfig(ctx, scope, version, sortDocs); err != nil {
					return err
				}
			}
			if !noAttributes {
				if err := installAttributes(ctx, scope); err != nil {
					return err
				}
			}
			return nil
		},
	}
	scopeFlags.register(cmd)
	cmd.Flags().IntVar(&version, "filter-version", filter.DefaultVersion, "rule table version to bake into the clean command")
	cmd.Flags().BoolVar(&sortDocs, "sort", false, "bake document sorting into the clean command")
	cmd.Flags().BoolVar(&noConfig, "no-config", false, "skip the git config step")
	cmd.Flags().BoolVar(&noAttributes, "no-attributes", false, "skip the attributes step")
	return cmd
}

func newUninstallCmd() *cobra.Command {
	var scopeFlags scopeSelector
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the filter from git config and attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope := scopeFlags.scope()
			for _, key := range filterKeys() {
				if err := gitconfig.Unset(ctx, scope, key); err != nil {
					return err
				}
			}
			return uninstallAttributes(ctx, scope)
		},
	}
	scopeFlags.register(cmd)
	return cmd
}

// scopeSelector maps the mutually exclusive scope flags onto a
// gitconfig.Scope, defaulting to local.
type scopeSelector struct {
	global, system, worktree bool
}

func (s *scopeSelector) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.global, "global", false, "target the global git config")
	cmd.Flags().BoolVar(&s.system, "system", false, "target the system git config")
	cmd.Flags().BoolVar(&s.worktree, "worktree", false, "target the worktree git config")
	cmd.MarkFlagsMutuallyExclusive("global", "system", "worktree")
}

func (s *scopeSelector) scope() gitconfig.Scope {
	switch {
	case s.global:
		return gitconfig.ScopeGlobal
	case s.system:
		return gitconfig.ScopeSystem
	case s.worktree:
		return gitconfig.ScopeWorktree
	default:
		return gitconfig.ScopeLocal
	}
}

func filterKeys() []string {
	return []string{
		"filter." + filterName + ".clean",
		"filter." + filterName + ".smudge",
		"filter." + filterName + ".required",
	}
}

func installConfig(ctx context.Context, scope gitconfig.Scope, version int, sortDocs bool) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	clean := fmt.Sprintf("%q clean --filter-version=%d --file %%f", exe, version)
	if sortDocs {
		clean += " --sort"
	}
	settings := map[string]string{
		"filter." + filterName + ".clean":    clean,
		"filter." + filterName + ".smudge":   fmt.Sprintf("%q smudge", exe),
		"filter." + filterName + ".required": "true",
	}
	for _, key := range filterKeys() {
		if err := gitconfig.Set(ctx, scope, key, settings[key]); err != nil {
			return err
		}
		slog.Debug("config set", "scope", scope.String(), "key", key)
	}
	return nil
}

func installAttributes(ctx context.Context, scope gitconfig.Scope) error {
	path, err := gitconfig.AttributesFile(ctx, scope)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	lines := splitLines(string(existing))
	var added bool
	for _, pattern := range attrPatterns {
		line := pattern + " filter=" + filterName
		if containsLine(lines, line) {
			continue
		}
		lines = append(lines, line)
		added = true
	}
	if !added {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	slog.Debug("attributes updated", "path", path)
	return os.WriteFile(path, []byte(joinLines(lines)), 0o644)
}

func uninstallAttributes(ctx context.Context, scope gitconfig.Scope) error {
	path, err := gitconfig.AttributesFile(ctx, scope)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var kept []string
	for _, line := range splitLines(string(existing)) {
		if isFilterAttributeLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return os.Remove(path)
	}
	return os.WriteFile(path, []byte(joinLines(kept)), 0o644)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// isFilterAttributeLine reports whether a .gitattributes line assigns this
// filter to a pattern: a non-comment pattern followed by a filter=scene
// attribute field. Comments or other lines that merely mention the filter
// name are not touched.
func isFilterAttributeLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
		return false
	}
	for _, f := range fields[1:] {
		if f == "filter="+filterName {
			return true
		}
	}
	return false
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}
