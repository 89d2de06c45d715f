package strategies

import "github.com/google/uuid"

// params returns the merged parameters for a resolve request, computing
// them from the entry when the caller did not
func (r ResolveRequest) params() map[string]interface{} {
	if r.Params != nil {
		return r.Params
	}
	return ParseRef(r.Entry.Ref).MergedParams(r.Entry)
}

// resolveFromIssueData builds a range-patch resolution from the offsets
// a validation strategy recorded in the issue's data. Issues without a
// recorded replacement are not automatically resolvable.
func resolveFromIssueData(strategy string, req ResolveRequest) (*Resolution, error) {
	data := req.Issue.Data
	if data == nil {
		return nil, nil
	}

	replacement, ok := data[DataReplacement].(string)
	if !ok {
		return nil, nil
	}

	start := ParamInt(data, DataStart, -1)
	end := ParamInt(data, DataEnd, -1)
	if start < 0 || end < start || end > len(req.Content) {
		return nil, nil
	}

	// Offsets were recorded against the content the validator saw; if a
	// prior resolution moved things around, the issue stays unresolved
	if expected, ok := data[DataExpected].(string); ok && string(req.Content[start:end]) != expected {
		return nil, nil
	}

	return &Resolution{
		ID:         uuid.NewString(),
		IssueIndex: req.IssueIndex,
		RuleID:     req.Issue.RuleID,
		Strategy:   strategy,
		Patch: Patch{
			Start:       start,
			End:         end,
			Expected:    string(req.Content[start:end]),
			Replacement: replacement,
		},
	}, nil
}

// lineCol converts a byte offset into 1-based line and column numbers
func lineCol(content []byte, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
