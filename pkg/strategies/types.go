package strategies

import (
	"bytes"
	"strings"

	"github.com/ruleweave/ruleweave/pkg/errors"
)

// Severity classifies how serious a validation issue is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Location points at the content a validation issue refers to.
// Line and Col are 1-based; zero values mean the whole file.
type Location struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	EndLine int    `json:"endLine,omitempty"`
	EndCol  int    `json:"endCol,omitempty"`
}

// Issue is a single validation finding produced by a validation strategy
type Issue struct {
	RuleID       string                 `json:"ruleId"`
	ValidationID string                 `json:"validationId"`
	Severity     Severity               `json:"severity"`
	Location     Location               `json:"location"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// Issue data keys used to carry byte offsets from validation to fixing.
const (
	DataStart       = "start"
	DataEnd         = "end"
	DataExpected    = "expected"
	DataReplacement = "replacement"
)

// Patch is a byte-range replacement against a content snapshot.
// Expected holds the bytes the patch expects at [Start, End); applying
// against content that no longer carries them is an ApplyFailure.
type Patch struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Expected    string `json:"expected"`
	Replacement string `json:"replacement"`
}

// Apply performs the range replacement, verifying the expected bytes
// are still in place
func (p Patch) Apply(content []byte) ([]byte, error) {
	if p.Start < 0 || p.End < p.Start || p.End > len(content) {
		return nil, errors.Newf(errors.ErrApplyFailure,
			"patch range [%d, %d) out of bounds for content of %d bytes", p.Start, p.End, len(content))
	}
	if string(content[p.Start:p.End]) != p.Expected {
		return nil, errors.Newf(errors.ErrApplyFailure,
			"content changed under patch at [%d, %d)", p.Start, p.End)
	}

	var buf bytes.Buffer
	buf.Grow(len(content) - (p.End - p.Start) + len(p.Replacement))
	buf.Write(content[:p.Start])
	buf.WriteString(p.Replacement)
	buf.Write(content[p.End:])
	return buf.Bytes(), nil
}

// Resolution is a concrete, appliable fix for one validation issue
type Resolution struct {
	// ID uniquely identifies the resolution within a fix report
	ID string `json:"id"`

	// IssueIndex is the position of the resolved issue in the input issue list
	IssueIndex int `json:"issueIndex"`

	RuleID   string `json:"ruleId"`
	Strategy string `json:"strategy"`
	Patch    Patch  `json:"patch"`
}

// Context is the read-only state handed to validation strategies: the
// file under validation, its content, and optional side-channel data.
type Context struct {
	// File is the relative path of the content being validated
	File string

	// Content is the full file content
	Content []byte

	// KnownFiles indexes the project's files for strategies that check
	// cross-file references. Keys are both base names and relative
	// paths; values are relative paths from the project root.
	KnownFiles map[string]string

	// Data carries arbitrary project- or rule-scoped side-channel values
	Data map[string]interface{}

	lines []string
}

// NewContext creates a validation context for a file
func NewContext(file string, content []byte) *Context {
	return &Context{File: file, Content: content}
}

// Lines returns the content split into lines, computed once.
// The trailing newline does not produce an empty final line.
func (c *Context) Lines() []string {
	if c.lines == nil {
		text := string(c.Content)
		text = strings.TrimSuffix(text, "\n")
		if text == "" {
			c.lines = []string{}
		} else {
			c.lines = strings.Split(text, "\n")
		}
	}
	return c.lines
}
