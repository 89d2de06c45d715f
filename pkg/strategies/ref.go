package strategies

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruleweave/ruleweave/pkg/rules"
)

// Ref is a parsed validation reference. References encode
// "<strategyName>:<rest>"; a reference without a strategy prefix
// resolves to the composite strategy with the whole reference as rest.
//
// The rest is a comma-separated token list: "k=v" tokens become Params,
// bare tokens become Subs (sub-strategy names for composite).
type Ref struct {
	Strategy string
	Rest     string
	Params   map[string]interface{}
	Subs     []string
}

// ParseRef parses a validation reference string
func ParseRef(ref string) Ref {
	name := CompositeName
	rest := ref

	if idx := strings.Index(ref, ":"); idx >= 0 {
		name = ref[:idx]
		rest = ref[idx+1:]
	}
	if name == "" {
		name = CompositeName
	}

	params, subs := parseRest(rest)
	return Ref{Strategy: name, Rest: rest, Params: params, Subs: subs}
}

func parseRest(rest string) (map[string]interface{}, []string) {
	params := make(map[string]interface{})
	var subs []string

	for _, token := range strings.Split(rest, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if key, value, found := strings.Cut(token, "="); found && isParamKey(strings.TrimSpace(key)) {
			params[strings.TrimSpace(key)] = strings.TrimSpace(value)
		} else {
			subs = append(subs, token)
		}
	}

	return params, subs
}

// isParamKey reports whether s looks like a parameter name rather than
// a fragment of an expression (cel references carry arbitrary code in
// their rest and are consumed raw via Ref.Rest)
func isParamKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return false
		}
	}
	return true
}

// MergedParams combines the reference's inline params with the entry's
// params block; entry params win on conflict. Sub-strategy names from
// the reference surface under "strategies" when the entry does not set
// them itself.
func (r Ref) MergedParams(entry rules.ValidationEntry) map[string]interface{} {
	merged := make(map[string]interface{}, len(r.Params)+len(entry.Params)+1)
	for k, v := range r.Params {
		merged[k] = v
	}
	for k, v := range entry.Params {
		merged[k] = v
	}
	if _, ok := merged["strategies"]; !ok && len(r.Subs) > 0 {
		merged["strategies"] = r.Subs
	}
	return merged
}

// ParamString reads a string param, falling back to def
func ParamString(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return def
}

// ParamInt reads an integer param, accepting int, float, and numeric
// string values
func ParamInt(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

// ParamBool reads a boolean param, accepting bool and string values
func ParamBool(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

// ParamStrings reads a string-list param, accepting []string, []any,
// and comma-separated string values
func ParamStrings(params map[string]interface{}, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return nil
}

// ParamSeverity reads the severity param, defaulting to warning
func ParamSeverity(params map[string]interface{}) Severity {
	switch ParamString(params, "severity", "") {
	case string(SeverityError):
		return SeverityError
	case string(SeverityInfo):
		return SeverityInfo
	case string(SeverityWarning):
		return SeverityWarning
	default:
		return SeverityWarning
	}
}
