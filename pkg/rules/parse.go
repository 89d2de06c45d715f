package rules

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ruleweave/ruleweave/pkg/errors"
)

const frontmatterDelimiter = "---"

// Parse decodes a rule file: YAML frontmatter delimited by "---" lines,
// followed by an optional markdown body. It returns the decoded rule and
// the raw frontmatter mapping used for schema validation.
func Parse(data []byte) (Rule, map[string]interface{}, error) {
	frontmatter, body, err := splitFrontmatter(data)
	if err != nil {
		return Rule{}, nil, err
	}

	var rule Rule
	if err := yaml.Unmarshal(frontmatter, &rule); err != nil {
		return Rule{}, nil, errors.Wrap(err, errors.ErrRuleParse, "cannot decode rule frontmatter")
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(frontmatter, &raw); err != nil {
		return Rule{}, nil, errors.Wrap(err, errors.ErrRuleParse, "cannot decode rule frontmatter")
	}

	rule.Body = body
	return rule, raw, nil
}

// Serialize renders a rule back into the .mdc file format
func Serialize(rule Rule) ([]byte, error) {
	frontmatter, err := yaml.Marshal(rule)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot encode rule frontmatter")
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")
	buf.Write(frontmatter)
	buf.WriteString(frontmatterDelimiter + "\n")
	if rule.Body != "" {
		buf.WriteString(rule.Body)
		if !strings.HasSuffix(rule.Body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func splitFrontmatter(data []byte) (frontmatter []byte, body string, err error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\n") != frontmatterDelimiter {
		return nil, "", errors.New(errors.ErrRuleParse, "rule file does not start with a frontmatter delimiter")
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\n") == frontmatterDelimiter {
			fm := strings.Join(lines[1:i], "")
			rest := strings.Join(lines[i+1:], "")
			return []byte(fm), rest, nil
		}
	}

	return nil, "", errors.New(errors.ErrRuleParse, "rule frontmatter is not terminated")
}
