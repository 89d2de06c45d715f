// Package source provides filesystem-backed rule and content access.
package source

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/logging"
)

// rulePattern matches the rule file extensions the loader understands
const rulePattern = "**/*.{mdc,md}"

// Filesystem is a rule source rooted at a project directory.
// Identifiers are slash-separated paths relative to the root.
type Filesystem struct {
	root   string
	logger zerolog.Logger
}

// NewFilesystem creates a filesystem source rooted at root
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{
		root:   root,
		logger: logging.GetLogger("source.filesystem"),
	}
}

// List returns the rule files under dir, sorted. A missing directory is
// an empty rule set, not an error.
func (s *Filesystem) List(ctx context.Context, dir string) ([]string, error) {
	base := filepath.Join(s.root, filepath.FromSlash(dir))
	if _, err := os.Stat(base); os.IsNotExist(err) {
		s.logger.Debug().Str("dir", base).Msg("Rule directory does not exist")
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(base), rulePattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot list rules under %s", base)
	}

	identifiers := make([]string, 0, len(matches))
	for _, m := range matches {
		identifiers = append(identifiers, path.Join(dir, m))
	}
	sort.Strings(identifiers)
	return identifiers, nil
}

// Read returns the raw bytes of one file under the root
func (s *Filesystem) Read(ctx context.Context, identifier string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(identifier)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "no such file %q", identifier)
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot read %q", identifier)
	}
	return data, nil
}

// Write stores data under the root, creating parent directories
func (s *Filesystem) Write(ctx context.Context, identifier string, data []byte) error {
	target := filepath.Join(s.root, filepath.FromSlash(identifier))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot create directory for %q", identifier)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot write %q", identifier)
	}
	return nil
}

// Files collects the project files matching patterns, relative to root,
// sorted and de-duplicated. Used to gather validation targets and to
// build the known-files index.
func Files(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "bad file pattern %q", pattern)
		}
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}
