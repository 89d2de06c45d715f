package strategies

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/ruleweave/ruleweave/pkg/rules"
)

// MarkdownLinksName is the name used to reference the mdlink strategy
const MarkdownLinksName = "mdlink"

var markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// MarkdownLinks validates `[text](path)` links against the context's
// known-files index. Links whose target cannot be found are issues;
// targets that resolve to a known file under a different path carry a
// replacement and are automatically fixable.
//
// External URLs, mail links, and pure anchors are ignored. The
// "mdc:" and "file:" prefixes are stripped before checking and kept on
// the rewritten link.
type MarkdownLinks struct {
	RangeTransform
}

// Validate checks every markdown link in the content
func (s *MarkdownLinks) Validate(rule rules.Rule, entry rules.ValidationEntry, vctx *Context) ([]Issue, error) {
	if vctx.KnownFiles == nil {
		// No file index supplied; nothing to check links against
		return nil, nil
	}

	params := ParseRef(entry.Ref).MergedParams(entry)
	severity := ParamSeverity(params)
	fromDir := path.Dir(vctx.File)

	var issues []Issue
	for _, m := range markdownLinkRe.FindAllSubmatchIndex(vctx.Content, -1) {
		targetStart, targetEnd := m[4], m[5]
		rawTarget := string(vctx.Content[targetStart:targetEnd])

		prefix, target, fragment := splitLinkTarget(rawTarget)
		if target == "" || isExternalLink(target) {
			continue
		}

		canonical, found := s.lookup(fromDir, target, vctx.KnownFiles)
		if !found {
			line, col := lineCol(vctx.Content, targetStart)
			issues = append(issues, Issue{
				RuleID:       rule.ID,
				ValidationID: entry.ID,
				Severity:     severity,
				Location:     Location{File: vctx.File, Line: line, Col: col},
				Message:      fmt.Sprintf("broken link target %q", target),
				Data: map[string]interface{}{
					DataStart:    targetStart,
					DataEnd:      targetEnd,
					DataExpected: rawTarget,
				},
			})
			continue
		}

		if canonical == target {
			continue
		}

		line, col := lineCol(vctx.Content, targetStart)
		issues = append(issues, Issue{
			RuleID:       rule.ID,
			ValidationID: entry.ID,
			Severity:     severity,
			Location:     Location{File: vctx.File, Line: line, Col: col},
			Message:      fmt.Sprintf("link target %q should be %q", target, canonical),
			Data: map[string]interface{}{
				DataStart:       targetStart,
				DataEnd:         targetEnd,
				DataExpected:    rawTarget,
				DataReplacement: prefix + canonical + fragment,
			},
		})
	}

	return issues, nil
}

// lookup resolves a link target against the known-files index. It tries
// the path resolved from the linking file's directory first, then falls
// back to the bare file name. The returned path is relative to the
// linking file's directory.
func (s *MarkdownLinks) lookup(fromDir, target string, known map[string]string) (string, bool) {
	resolved := path.Clean(path.Join(fromDir, target))
	if actual, ok := known[resolved]; ok {
		return relSlash(fromDir, actual), true
	}
	if actual, ok := known[path.Base(target)]; ok {
		return relSlash(fromDir, actual), true
	}
	return "", false
}

// Resolve builds a range patch rewriting the link target
func (s *MarkdownLinks) Resolve(req ResolveRequest) (*Resolution, error) {
	return resolveFromIssueData(MarkdownLinksName, req)
}

func isExternalLink(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:")
}

// splitLinkTarget strips a recognized scheme prefix and a trailing
// fragment from a raw link target
func splitLinkTarget(raw string) (prefix, target, fragment string) {
	target = raw
	for _, p := range []string{"mdc:", "file:"} {
		if strings.HasPrefix(target, p) {
			prefix = p
			target = strings.TrimPrefix(target, p)
			break
		}
	}
	if idx := strings.Index(target, "#"); idx >= 0 {
		fragment = target[idx:]
		target = target[:idx]
	}
	return prefix, target, fragment
}

// relSlash computes the relative slash-separated path from one
// directory to a file
func relSlash(fromDir, to string) string {
	if fromDir == "." || fromDir == "" {
		return to
	}

	fromParts := strings.Split(path.Clean(fromDir), "/")
	toParts := strings.Split(path.Clean(to), "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)
	return strings.Join(parts, "/")
}
