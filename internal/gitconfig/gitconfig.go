// Package gitconfig shells out to git for the small amount of plumbing the
// installer needs: reading and writing config keys at a chosen scope,
// locating the repository root, and locating the attributes file a scope
// writes to.
package gitconfig

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Scope selects which git config file an operation targets.
type Scope int

const (
	ScopeLocal Scope = iota
	ScopeGlobal
	ScopeSystem
	ScopeWorktree
)

func (s Scope) flag() string {
	switch s {
	case ScopeGlobal:
		return "--global"
	case ScopeSystem:
		return "--system"
	case ScopeWorktree:
		return "--worktree"
	default:
		return "--local"
	}
}

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeSystem:
		return "system"
	case ScopeWorktree:
		return "worktree"
	default:
		return "local"
	}
}

func run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(bytes.TrimSpace(stdout.Bytes())), nil
}

// Set writes key=value at the given scope.
func Set(ctx context.Context, scope Scope, key, value string) error {
	_, err := run(ctx, "config", scope.flag(), key, value)
	return err
}

// Get reads key at the given scope. A missing key is reported via the bool,
// not an error.
func Get(ctx context.Context, scope Scope, key string) (string, bool, error) {
	cmd := exec.CommandContext(ctx, "git", "config", scope.flag(), "--get", key)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		// exit code 1 means the key is absent
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("git config --get %s: %w", key, err)
	}
	return string(bytes.TrimSpace(stdout.Bytes())), true, nil
}

// Unset removes key at the given scope. Removing an absent key is not an
// error.
func Unset(ctx context.Context, scope Scope, key string) error {
	cmd := exec.CommandContext(ctx, "git", "config", scope.flag(), "--unset", key)
	if err := cmd.Run(); err != nil {
		// exit code 5 means the key was not set
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 5 {
			return nil
		}
		return fmt.Errorf("git config --unset %s: %w", key, err)
	}
	return nil
}

// RepoRoot returns the working tree root of the enclosing repository.
func RepoRoot(ctx context.Context) (string, error) {
	return run(ctx, "rev-parse", "--show-toplevel")
}

// AttributesFile returns the path of the attributes file the given scope
// writes to. For the repository scopes that is <root>/.gitattributes; for
// the global scope it is core.attributesfile when set, otherwise git's
// default of $XDG_CONFIG_HOME/git/attributes.
func AttributesFile(ctx context.Context, scope Scope) (string, error) {
	switch scope {
	case ScopeLocal, ScopeWorktree:
		root, err := RepoRoot(ctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(root, ".gitattributes"), nil
	case ScopeGlobal:
		if path, ok, err := Get(ctx, ScopeGlobal, "core.attributesfile"); err != nil {
			return "", err
		} else if ok {
			return expandHome(path)
		}
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, "git", "attributes"), nil
	default:
		return "", fmt.Errorf("no attributes file for %s scope", scope)
	}
}

func expandHome(path string) (string, error) {
	if len(path) < 2 || path[0] != '~' || path[1] != '/' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
