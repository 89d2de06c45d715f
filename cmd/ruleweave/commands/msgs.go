package commands

// User-facing command copy, kept together so wording stays consistent.
const (
	MsgRootShort = "A declarative rule engine for project conventions"
	MsgRootLong = `ruleweave loads declarative rules (.mdc files), matches them against
your project's context or files, merges them into derived configuration,
and validates and fixes content through the rules' attached strategies.`

	MsgValidateShort = "Validate files against the applicable rules"
	MsgValidateLong = `Validate runs every applicable rule's validation strategies over the
given files and reports the issues found. Without file arguments, the
files covered by the loaded rules' glob patterns are validated.`

	MsgFixShort = "Fix validation issues automatically"
	MsgFixLong = `Fix validates the given files and applies the resolutions the rules'
transformation strategies produce. By default changes are previewed as
a diff; pass --write to modify the files in place.`

	MsgGenerateShort = "Generate merged configuration for a context"
	MsgGenerateLong = `Generate matches the loaded rules against the described context and
deep-merges the payloads of every matching rule, higher-ranked rules
winning conflicts, into one configuration.`

	MsgRulesShort     = "Inspect the loaded rules"
	MsgRulesListShort = "List the loaded rules"
	MsgRulesShowShort = "Show one rule, rendering its body"
	MsgRulesLintShort = "Check rule files for schema and strategy problems"

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
)
