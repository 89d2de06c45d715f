package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleweave/ruleweave/cmd/ruleweave/commands"
)

const testRule = `---
id: whitespace
name: Whitespace hygiene
globs:
  - "**/*.md"
validations:
  - id: fmt
    validationRef: format
---
Markdown files stay free of trailing whitespace.
`

const payloadRule = `---
id: ts-style
name: TypeScript style
conditions:
  technologies:
    - typescript
payload:
  linter: eslint
---
`

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	rulesDir := filepath.Join(root, ".cursor", "rules")
	require.NoError(t, os.MkdirAll(rulesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "whitespace.mdc"), []byte(testRule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rulesDir, "ts-style.mdc"), []byte(payloadRule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("dirty   \n"), 0o644))
	return root
}

func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--root", root, "--color", "never"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "validate")
	// Default fail_on is "error"; a warning does not fail the run
	require.NoError(t, err)
	assert.Contains(t, out, "readme.md")
	assert.Contains(t, out, "trailing whitespace")
}

func TestValidateCommandFailOnWarning(t *testing.T) {
	root := setupProject(t)
	t.Setenv("RULEWEAVE_VALIDATE_FAIL_ON", "warning")

	_, err := execute(t, root, "validate")
	require.Error(t, err)
}

func TestValidateCommandExplicitFile(t *testing.T) {
	root := setupProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "clean.md"), []byte("clean\n"), 0o644))

	out, err := execute(t, root, "validate", "clean.md")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestFixCommandDryRun(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "fix")
	require.NoError(t, err)
	assert.Contains(t, out, "1 applied")

	// Dry run leaves the file untouched
	content, err := os.ReadFile(filepath.Join(root, "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "dirty   \n", string(content))
}

func TestFixCommandWrite(t *testing.T) {
	root := setupProject(t)

	_, err := execute(t, root, "fix", "--write")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "dirty\n", string(content))
}

func TestGenerateCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "generate", "--tech", "typescript")
	require.NoError(t, err)
	assert.Contains(t, out, "linter = 'eslint'")
	assert.Contains(t, out, "ts-style")
}

func TestGenerateCommandToFile(t *testing.T) {
	root := setupProject(t)
	target := filepath.Join(root, "generated.toml")

	_, err := execute(t, root, "generate", "--tech", "typescript", "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "linter = 'eslint'")
}

func TestRulesListCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "rules", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "whitespace")
	assert.Contains(t, out, "ts-style")
}

func TestRulesShowCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "rules", "show", "whitespace")
	require.NoError(t, err)
	assert.Contains(t, out, "Whitespace hygiene")
}

func TestRulesLintCommand(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "rules", "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "2 rule(s) ok")
}

func TestRulesLintCommandFindsProblems(t *testing.T) {
	root := setupProject(t)
	bad := `---
id: broken
name: Broken
globs:
  - "*.md"
validations:
  - id: v1
    validationRef: "no-such-strategy:x=1"
---
`
	require.NoError(t, os.WriteFile(
		filepath.Join(root, ".cursor", "rules", "broken.mdc"), []byte(bad), 0o644))

	out, err := execute(t, root, "rules", "lint")
	require.Error(t, err)
	assert.Contains(t, out, "no-such-strategy")
}

func TestValidateCommandJSON(t *testing.T) {
	root := setupProject(t)

	out, err := execute(t, root, "validate", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"file": "readme.md"`)
}
