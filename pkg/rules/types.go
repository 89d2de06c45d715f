package rules

import "time"

// Rule is the canonical in-memory representation of a rule definition.
// Rules are parsed from .mdc files: YAML frontmatter followed by a
// markdown body.
type Rule struct {
	// ID is the unique, stable identifier of the rule
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable rule name
	Name string `yaml:"name" json:"name"`

	// Description explains what the rule enforces
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Version of the rule definition
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Category groups related rules
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// Tags is a free-form set of labels
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Author of the rule
	Author string `yaml:"author,omitempty" json:"author,omitempty"`

	// Created and Updated are maintenance timestamps
	Created time.Time `yaml:"created,omitempty" json:"created,omitempty"`
	Updated time.Time `yaml:"updated,omitempty" json:"updated,omitempty"`

	// Conditions restrict which contexts this rule applies to.
	// Absent condition categories are wildcards.
	Conditions Conditions `yaml:"conditions,omitempty" json:"conditions,omitempty"`

	// Globs are path patterns this rule applies to when validating content
	Globs []string `yaml:"globs,omitempty" json:"globs,omitempty"`

	// AlwaysApply bypasses both condition scoring and glob matching
	AlwaysApply bool `yaml:"alwaysApply,omitempty" json:"alwaysApply,omitempty"`

	// Payload is the configuration fragment merged into generated
	// configuration when the rule matches
	Payload map[string]interface{} `yaml:"payload,omitempty" json:"payload,omitempty"`

	// Validations are the rule's content validators
	Validations []ValidationEntry `yaml:"validations,omitempty" json:"validations,omitempty"`

	// Includes names other rules unioned in when this rule is selected
	Includes []string `yaml:"includes,omitempty" json:"includes,omitempty"`

	// Body is the markdown body following the frontmatter
	Body string `yaml:"-" json:"-"`
}

// Conditions are the per-category applicability constraints of a rule.
// A nil category is a wildcard and always satisfies.
type Conditions struct {
	Phase        []string `yaml:"phase,omitempty" json:"phase,omitempty"`
	Technologies []string `yaml:"technologies,omitempty" json:"technologies,omitempty"`
	FilesPresent []string `yaml:"files_present,omitempty" json:"files_present,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	ProjectType  []string `yaml:"project_type,omitempty" json:"project_type,omitempty"`
}

// Condition category names as they appear in rule files and contexts.
const (
	CategoryPhase        = "phase"
	CategoryTechnologies = "technologies"
	CategoryFilesPresent = "files_present"
	CategoryDependencies = "dependencies"
	CategoryProjectType  = "project_type"
)

// Declared returns the condition categories declared on the rule, in a
// fixed order. A declared category may be empty, which still counts as
// declared (and always satisfies).
func (c Conditions) Declared() []DeclaredCondition {
	var out []DeclaredCondition
	if c.Phase != nil {
		out = append(out, DeclaredCondition{CategoryPhase, c.Phase})
	}
	if c.Technologies != nil {
		out = append(out, DeclaredCondition{CategoryTechnologies, c.Technologies})
	}
	if c.FilesPresent != nil {
		out = append(out, DeclaredCondition{CategoryFilesPresent, c.FilesPresent})
	}
	if c.Dependencies != nil {
		out = append(out, DeclaredCondition{CategoryDependencies, c.Dependencies})
	}
	if c.ProjectType != nil {
		out = append(out, DeclaredCondition{CategoryProjectType, c.ProjectType})
	}
	return out
}

// DeclaredCategories returns the number of condition categories the rule declares
func (c Conditions) DeclaredCategories() int {
	return len(c.Declared())
}

// DeclaredCondition pairs a category name with its declared values
type DeclaredCondition struct {
	Category string
	Values   []string
}

// ValidationEntry attaches a named validation strategy to a rule.
// Ref encodes "<strategyName>:<rest>"; entries without a strategy prefix
// resolve to the composite strategy.
type ValidationEntry struct {
	ID     string                 `yaml:"id" json:"id"`
	Ref    string                 `yaml:"validationRef" json:"validationRef"`
	Params map[string]interface{} `yaml:"params,omitempty" json:"params,omitempty"`
}
