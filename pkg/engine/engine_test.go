package engine_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweave/ruleweave/pkg/engine"
	"github.com/ruleweave/ruleweave/pkg/generate"
	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/validate"
)

type memSource struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemSource(files map[string]string) *memSource {
	s := &memSource{files: make(map[string][]byte)}
	for name, content := range files {
		s.files[name] = []byte(content)
	}
	return s
}

func (s *memSource) List(ctx context.Context, dir string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memSource) Read(ctx context.Context, identifier string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[identifier], nil
}

func (s *memSource) Write(ctx context.Context, identifier string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[identifier] = data
	return nil
}

const whitespaceRule = `---
id: whitespace
name: Whitespace hygiene
globs:
  - "**/*.md"
validations:
  - id: fmt
    validationRef: format
---
Keep markdown files free of trailing whitespace.
`

const tsRule = `---
id: ts-style
name: TypeScript style
conditions:
  technologies:
    - typescript
payload:
  linter: eslint
  plugins:
    - prettier
---
`

const goRule = `---
id: go-style
name: Go style
conditions:
  technologies:
    - go
payload:
  linter: golangci-lint
---
`

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	source := newMemSource(map[string]string{
		"whitespace.mdc": whitespaceRule,
		"ts-style.mdc":   tsRule,
		"go-style.mdc":   goRule,
	})
	return engine.New(rules.NewLoader(source, "."))
}

func TestValidateFile(t *testing.T) {
	e := newEngine(t)

	result, diags, err := e.ValidateFile(context.Background(), validate.Request{
		File:    "docs/a.md",
		Content: []byte("dirty   \n"),
	})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "whitespace", result.Issues[0].RuleID)
}

func TestFixFile(t *testing.T) {
	e := newEngine(t)

	report, _, err := e.FixFile(context.Background(), validate.Request{
		File:    "docs/a.md",
		Content: []byte("dirty   \nmore  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "dirty\nmore\n", string(report.Content))
	assert.Empty(t, report.Unresolved)
	assert.NotEmpty(t, report.Diff)
}

func TestGenerateConfig(t *testing.T) {
	e := newEngine(t)

	cfg, diags, err := e.GenerateConfig(context.Background(),
		matching.Context{rules.CategoryTechnologies: {"typescript"}},
		generate.Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "eslint", cfg.Values["linter"])
	assert.Equal(t, []string{"ts-style"}, cfg.RuleIDs)
}

func TestMatchRules(t *testing.T) {
	e := newEngine(t)

	matches, err := e.MatchRules(context.Background(),
		matching.Context{rules.CategoryTechnologies: {"go"}})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "go-style", matches[0].Rule.ID)
	assert.Equal(t, 1.0, matches[0].Score)
}

func TestValidateBatch(t *testing.T) {
	e := newEngine(t)

	reqs := []validate.Request{
		{File: "a.md", Content: []byte("dirty   \n")},
		{File: "b.md", Content: []byte("clean\n")},
		{File: "c.go", Content: []byte("package main\n")},
	}

	results, err := e.ValidateBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "a.md", results[0].File)
	assert.Len(t, results[0].Issues, 1)
	assert.Empty(t, results[1].Issues)
	// No rule globs *.go, so nothing applied
	assert.Empty(t, results[2].AppliedRuleIDs)
}

func TestValidateBatchCancelled(t *testing.T) {
	e := newEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := make([]validate.Request, 64)
	for i := range reqs {
		reqs[i] = validate.Request{File: "a.md", Content: []byte("x")}
	}

	// Rules load fine; the cancelled context surfaces from the workers
	_, err := e.ValidateBatch(ctx, reqs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileIndex(t *testing.T) {
	index := engine.FileIndex([]string{
		"docs/setup/guide.md",
		"docs/guide.md",
		"readme.md",
	})

	assert.Equal(t, "docs/guide.md", index["docs/guide.md"])
	assert.Equal(t, "docs/setup/guide.md", index["docs/setup/guide.md"])
	// Bare names resolve to the lexicographically first carrier
	assert.Equal(t, "docs/guide.md", index["guide.md"])
	assert.Equal(t, "readme.md", index["readme.md"])
}
