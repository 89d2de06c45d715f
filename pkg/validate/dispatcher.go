package validate

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruleweave/ruleweave/pkg/errors"
	"github.com/ruleweave/ruleweave/pkg/logging"
	"github.com/ruleweave/ruleweave/pkg/matching"
	"github.com/ruleweave/ruleweave/pkg/rules"
	"github.com/ruleweave/ruleweave/pkg/strategies"
)

// Request carries one file's content into validation
type Request struct {
	// File is the path the content was read from, relative to the
	// project root
	File string

	// Content is the file's current content
	Content []byte

	// KnownFiles is an optional index of files in the project, used by
	// link-checking strategies. Keys are relative paths and bare file
	// names; values are canonical relative paths.
	KnownFiles map[string]string
}

// EntryError attributes a validation failure to the rule and entry that
// produced it
type EntryError struct {
	RuleID       string `json:"ruleId"`
	ValidationID string `json:"validationId"`
	Err          error  `json:"-"`
	Message      string `json:"message"`
}

// Result is the outcome of validating one file
type Result struct {
	// File the result is for
	File string `json:"file"`

	// Issues found, in rule order then entry order
	Issues []strategies.Issue `json:"issues"`

	// AppliedRuleIDs lists the rules that applied to the file, sorted
	AppliedRuleIDs []string `json:"appliedRuleIds"`

	// SkippedRuleIDs lists the rules that did not apply, sorted
	SkippedRuleIDs []string `json:"skippedRuleIds"`

	// Errors holds per-entry failures; they never abort the run
	Errors []EntryError `json:"errors,omitempty"`

	// Elapsed is the wall time the validation took
	Elapsed time.Duration `json:"elapsed"`
}

// SeverityCounts tallies the result's issues by severity
func (r Result) SeverityCounts() map[strategies.Severity]int {
	counts := make(map[strategies.Severity]int)
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// HasErrors reports whether any issue carries error severity
func (r Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == strategies.SeverityError {
			return true
		}
	}
	return false
}

// Dispatcher runs validation strategies over file content
type Dispatcher struct {
	strategies *strategies.Registry
	logger     zerolog.Logger
}

// NewDispatcher creates a dispatcher backed by the given strategy registry
func NewDispatcher(reg *strategies.Registry) *Dispatcher {
	return &Dispatcher{
		strategies: reg,
		logger:     logging.GetLogger("validate"),
	}
}

// Content validates req.Content against every applicable rule in
// ruleSet. Rules run in id order so issue ordering is deterministic;
// a failing validation entry is recorded in the result's Errors and the
// remaining entries still run.
func (d *Dispatcher) Content(ruleSet []rules.Rule, req Request) Result {
	start := time.Now()
	result := Result{File: req.File}

	var applicable []rules.Rule
	for _, rule := range ruleSet {
		if matching.Applies(rule, req.File) {
			applicable = append(applicable, rule)
			result.AppliedRuleIDs = append(result.AppliedRuleIDs, rule.ID)
		} else {
			result.SkippedRuleIDs = append(result.SkippedRuleIDs, rule.ID)
		}
	}
	sort.Slice(applicable, func(i, j int) bool { return applicable[i].ID < applicable[j].ID })
	sort.Strings(result.AppliedRuleIDs)
	sort.Strings(result.SkippedRuleIDs)

	vctx := strategies.NewContext(req.File, req.Content)
	vctx.KnownFiles = req.KnownFiles

	for _, rule := range applicable {
		for _, entry := range rule.Validations {
			issues, err := d.runEntry(rule, entry, vctx)
			result.Issues = append(result.Issues, issues...)
			if err != nil {
				d.logger.Warn().
					Str("rule", rule.ID).
					Str("validation", entry.ID).
					Err(err).
					Msg("Validation entry failed")
				result.Errors = append(result.Errors, EntryError{
					RuleID:       rule.ID,
					ValidationID: entry.ID,
					Err:          err,
					Message:      err.Error(),
				})
			}
		}
	}

	result.Elapsed = time.Since(start)
	d.logger.Debug().
		Str("file", req.File).
		Int("rules", len(applicable)).
		Int("issues", len(result.Issues)).
		Dur("elapsed", result.Elapsed).
		Msg("Validation complete")

	return result
}

// runEntry executes a single validation entry, converting panics in
// strategy code into attributed errors
func (d *Dispatcher) runEntry(rule rules.Rule, entry rules.ValidationEntry, vctx *strategies.Context) (issues []strategies.Issue, err error) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = errors.Newf(errors.ErrInternal, "validation %q panicked: %v", entry.ID, r)
		}
	}()

	ref := strategies.ParseRef(entry.Ref)
	v := d.strategies.Validation(ref.Strategy)
	return v.Validate(rule, entry, vctx)
}
