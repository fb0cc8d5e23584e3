package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// RootMarker is the relative name of the served directory.
const RootMarker = "."

var ErrOutsideRoot = errors.New("path escapes server root")

// Target is the outcome of resolving a URL path: either the server root
// or a path relative to it.
type Target struct {
	root bool
	path string
}

// Root returns the target for a request that names no path.
func Root() Target {
	return Target{root: true, path: RootMarker}
}

// Path returns a target for the relative path p.
func Path(p string) Target {
	return Target{path: p}
}

func (t Target) IsRoot() bool {
	return t.root
}

// Path returns the root-relative path, "." for the root itself.
func (t Target) Path() string {
	return t.path
}

func (t Target) String() string {
	if t.root {
		return "Root"
	}
	return fmt.Sprintf("Path(%s)", t.path)
}

// Resolve strips one leading slash from raw and prefixes the remainder with
// the root marker. Dot-dot segments pass through untouched; use Contain
// before touching the filesystem.
func Resolve(raw string) Target {
	rest := strings.TrimPrefix(raw, "/")
	if rest == "" {
		return Root()
	}
	return Path(RootMarker + "/" + rest)
}

// Locate joins the target onto the directory being served without
// cleaning it.
func Locate(root string, t Target) string {
	if root == "" || root == RootMarker {
		return t.Path()
	}
	return root + string(filepath.Separator) + t.Path()
}

// Contain canonicalizes p against root and returns the absolute path, or
// ErrOutsideRoot when the result is not root or below it. The check is
// lexical; symlinks inside the root are followed by the caller's stat.
func Contain(root string, t Target) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}

	abs := filepath.Join(absRoot, filepath.FromSlash(t.Path()))

	rel, err := filepath.Rel(absRoot, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, t.Path())
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, t.Path())
	}

	return abs, nil
}
