// Package filtering implements the declarative include/exclude rule engine
// applied to SARIF results, along with the statistics recorded about every
// filtering decision.
package filtering

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/statice-dev/sarq/core/pathexpr"
)

// Filter annotation states written into each surviving result's property bag.
const (
	StateIncluded     = "included"
	StateNoProperty   = "noProperty"
	StateNoLineNumber = "noLineNumber"
)

// filterShortcuts maps commonly used property names to full path expressions.
var filterShortcuts = map[string]string{
	"author":         "properties.blame.author",
	"author-mail":    "properties.blame.author-mail",
	"committer":      "properties.blame.committer",
	"committer-mail": "properties.blame.committer-mail",
	"location":       "locations[*].physicalLocation.artifactLocation.uri",
	"rule":           "ruleId",
	"suppression":    "suppressions[*].kind",
}

// uriGlobShortcuts expands file wildcards into regex syntax for URI-shaped
// fields, so that filters can say "src/**/*.c" instead of writing a regex.
// Expansion is a single left-to-right pass with "**" taking precedence, so
// the replacement text is never re-expanded.
var uriGlobShortcuts = []struct{ glob, regex string }{
	{"**", ".*"},
	{"*", "[^/]*"},
	{"?", "."},
}

// startLineExpr reads the line number a filter decision should be judged by.
var startLineExpr = pathexpr.MustParse("locations[0].physicalLocation.region.startLine")

// RuleSpec is one rule of a rule set: a mapping from path expression (or
// shortcut) to value specification. All terms must match (AND).
type RuleSpec map[string]any

// Configuration is the optional global configuration block of a filter
// definition. Nil fields fall back to the engine defaults (both true).
type Configuration struct {
	DefaultInclude  *bool `yaml:"default-include"`
	CheckLineNumber *bool `yaml:"check-line-number"`
}

// termConfig is the effective configuration of a single filter term after
// merging engine defaults, the global configuration and per-term overrides.
type termConfig struct {
	defaultInclude  bool
	checkLineNumber bool
}

var defaultTermConfig = termConfig{defaultInclude: true, checkLineNumber: true}

func (c Configuration) merged() termConfig {
	ret := defaultTermConfig
	if c.DefaultInclude != nil {
		ret.defaultInclude = *c.DefaultInclude
	}
	if c.CheckLineNumber != nil {
		ret.checkLineNumber = *c.CheckLineNumber
	}
	return ret
}

// propertyFilter is one compiled filter term.
type propertyFilter struct {
	propPath string // original path or shortcut, used in warnings
	expr     *pathexpr.Expr
	config   termConfig
	match    func(string) bool
}

// multiPropertyFilter is one compiled rule: terms combined with AND.
type multiPropertyFilter struct {
	spec  RuleSpec
	terms []*propertyFilter
}

// compileTerm compiles one path/value-spec pair. Path expression and regex
// errors surface here so that a bad rule set fails on load, not per record.
func compileTerm(propPath string, valueSpec any, global termConfig) (*propertyFilter, error) {
	resolved := propPath
	if full, ok := filterShortcuts[propPath]; ok {
		resolved = full
	}
	expr, err := pathexpr.Parse(resolved)
	if err != nil {
		return nil, err
	}

	config := global
	var value string
	switch spec := valueSpec.(type) {
	case map[string]any:
		// A structured spec overrides per-term configuration and carries the
		// actual value under the "value" key.
		if v, ok := spec["default-include"].(bool); ok {
			config.defaultInclude = v
		}
		if v, ok := spec["check-line-number"].(bool); ok {
			config.checkLineNumber = v
		}
		if v, ok := spec["value"]; ok {
			value = pathexpr.Stringify(v)
		}
	case nil:
		value = ""
	default:
		value = pathexpr.Stringify(spec)
	}

	match, err := compileMatch(convertGlobToRegex(resolved, value))
	if err != nil {
		return nil, fmt.Errorf("invalid value pattern for %q: %w", propPath, err)
	}
	return &propertyFilter{propPath: propPath, expr: expr, config: config, match: match}, nil
}

// convertGlobToRegex expands glob shortcuts into a /regex/ spec when the
// resolved path ends in a URI-shaped component and the spec is not already a
// regex.
func convertGlobToRegex(resolvedPath, valueSpec string) string {
	if valueSpec == "" || isRegexSpec(valueSpec) {
		return valueSpec
	}
	components := strings.Split(resolvedPath, ".")
	last := components[len(components)-1]
	if strings.TrimSuffix(strings.Split(last, "[")[0], "]") != "uri" {
		return valueSpec
	}
	var expanded strings.Builder
	for i := 0; i < len(valueSpec); {
		replaced := false
		for _, s := range uriGlobShortcuts {
			if strings.HasPrefix(valueSpec[i:], s.glob) {
				expanded.WriteString(s.regex)
				i += len(s.glob)
				replaced = true
				break
			}
		}
		if !replaced {
			expanded.WriteByte(valueSpec[i])
			i++
		}
	}
	return "/" + expanded.String() + "/"
}

func isRegexSpec(spec string) bool {
	return len(spec) > 2 && strings.HasPrefix(spec, "/") && strings.HasSuffix(spec, "/")
}

// compileMatch returns the match function for a value specification: an
// empty spec matches anything (existence check), a /regex/ spec is a
// case-insensitive search, anything else is a case-sensitive substring test.
func compileMatch(spec string) (func(string) bool, error) {
	if spec == "" {
		return func(string) bool { return true }, nil
	}
	if isRegexSpec(spec) {
		re, err := regexp.Compile("(?i)" + spec[1:len(spec)-1])
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}
	return func(value string) bool { return strings.Contains(value, spec) }, nil
}

// compileRule compiles one rule spec. Terms are compiled in sorted path order
// so that repeated runs produce identical warnings.
func compileRule(spec RuleSpec, global termConfig) (*multiPropertyFilter, error) {
	paths := make([]string, 0, len(spec))
	for path := range spec {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	ret := &multiPropertyFilter{spec: spec}
	for _, path := range paths {
		term, err := compileTerm(path, spec[path], global)
		if err != nil {
			return nil, err
		}
		ret.terms = append(ret.terms, term)
	}
	return ret, nil
}

func compileRules(specs []RuleSpec, global termConfig) ([]*multiPropertyFilter, error) {
	var ret []*multiPropertyFilter
	for _, spec := range specs {
		if len(spec) == 0 {
			continue
		}
		rule, err := compileRule(spec, global)
		if err != nil {
			return nil, err
		}
		ret = append(ret, rule)
	}
	return ret, nil
}

// GeneralFilter applies compiled inclusion and exclusion rule sets to SARIF
// results and accumulates stats about every decision.
type GeneralFilter struct {
	stats          *FilterStats
	includeFilters []*multiPropertyFilter
	excludeFilters []*multiPropertyFilter
	applyInclusion bool
	applyExclusion bool
}

// NewGeneralFilter returns a filter that passes everything until Init is
// called.
func NewGeneralFilter() *GeneralFilter {
	return &GeneralFilter{}
}

// Init compiles the given rule sets. Compile errors mean no filter at all is
// installed.
func (f *GeneralFilter) Init(description string, config Configuration, include, exclude []RuleSpec) error {
	global := config.merged()
	includeFilters, err := compileRules(include, global)
	if err != nil {
		return err
	}
	excludeFilters, err := compileRules(exclude, global)
	if err != nil {
		return err
	}
	f.stats = NewFilterStats(description)
	f.includeFilters = includeFilters
	f.excludeFilters = excludeFilters
	f.applyInclusion = len(include) > 0
	f.applyExclusion = len(exclude) > 0
	return nil
}

// RehydrateStats restores filter stats recorded in a SARIF file when the
// filter was previously run. A later call to Init discards them.
func (f *GeneralFilter) RehydrateStats(bag map[string]any, at time.Time) {
	f.stats = FilterStatsFromPropertyBag(bag)
	if f.stats != nil {
		f.stats.FilterDatetime = at
	}
}

// Stats returns the statistics from running this filter, or nil when no
// filter has been configured or rehydrated.
func (f *GeneralFilter) Stats() *FilterStats {
	return f.stats
}

// Active reports whether any inclusion or exclusion rules are installed.
func (f *GeneralFilter) Active() bool {
	return f.applyInclusion || f.applyExclusion
}

// outcome is the result of evaluating one rule set against one record.
type outcome struct {
	state    string
	matched  []RuleSpec
	warnings []string
}

// FilterResults applies this filter to a list of results, returning the ones
// that pass. As a side effect the filter stats are updated and each
// surviving result gets a "filtered" entry in its property bag.
func (f *GeneralFilter) FilterResults(results []map[string]any) []map[string]any {
	if !f.Active() {
		return results
	}
	f.stats.Reset()
	ret := make([]map[string]any, 0, len(results))
	for _, result := range results {
		if f.filterOne(result) {
			ret = append(ret, result)
		}
	}
	return ret
}

// filterOne decides one record, updates the stats, and annotates the record
// if it passes.
func (f *GeneralFilter) filterOne(result map[string]any) bool {
	// Remove any existing filter log on the result
	if properties, ok := result["properties"].(map[string]any); ok {
		delete(properties, "filtered")
	}

	var included outcome
	if f.applyInclusion {
		included = f.evalRuleSet(result, f.includeFilters)
		if len(included.matched) == 0 {
			// Excluded by dint of not being included
			f.stats.FilteredOutCount++
			return false
		}
	} else {
		included = outcome{state: StateIncluded}
	}

	if f.applyExclusion {
		if excluded := f.evalRuleSet(result, f.excludeFilters); len(excluded.matched) > 0 {
			f.stats.FilteredOutCount++
			return false
		}
	}

	switch included.state {
	case StateIncluded:
		f.stats.FilteredInCount++
	case StateNoLineNumber:
		f.stats.UnconvincingLineNumbers++
	default:
		f.stats.MissingPropertyCount++
	}

	annotation := map[string]any{
		"state":         included.state,
		"matchedFilter": matchedFilterValue(included.matched),
		"filter":        f.stats.FilterDescription,
	}
	if len(included.warnings) > 0 {
		annotation["warnings"] = included.warnings
	}
	properties, ok := result["properties"].(map[string]any)
	if !ok {
		properties = map[string]any{}
		result["properties"] = properties
	}
	properties["filtered"] = annotation
	return true
}

// matchedFilterValue keeps the matched rule specs JSON-serializable inside
// the property bag.
func matchedFilterValue(matched []RuleSpec) []any {
	ret := make([]any, 0, len(matched))
	for _, spec := range matched {
		ret = append(ret, map[string]any(spec))
	}
	return ret
}

// evalRuleSet evaluates one rule set (rules OR'd, terms AND'd) against one
// record.
func (f *GeneralFilter) evalRuleSet(result map[string]any, rules []*multiPropertyFilter) outcome {
	var matched []RuleSpec
	var warnings []string
	defaultIncludeNoProp := false

	line := resultLineNumber(result)
	unconvincingLine := line == "" || line == "1"

	for _, rule := range rules {
		ruleMatched := true
		for _, term := range rule.terms {
			if term.config.checkLineNumber && unconvincingLine {
				// Blame attribution keyed to a missing or line-1 location is
				// unreliable, so the term is not checked against real data.
				warnings = append(warnings, fmt.Sprintf(
					"Field '%s' not checked due to missing line number information", term.propPath))
				continue
			}
			if value, ok := term.expr.First(result); ok {
				if term.match(pathexpr.Stringify(value)) {
					continue
				}
			} else if term.config.defaultInclude {
				warnings = append(warnings, fmt.Sprintf(
					"Field '%s' is missing but the result included as default-include is true", term.propPath))
				defaultIncludeNoProp = true
				continue
			}
			ruleMatched = false
			break
		}
		if ruleMatched {
			matched = append(matched, rule.spec)
			break
		}
	}

	state := StateIncluded
	if len(warnings) > 0 {
		if defaultIncludeNoProp {
			state = StateNoProperty
		} else {
			state = StateNoLineNumber
		}
	}
	return outcome{state: state, matched: matched, warnings: warnings}
}

// resultLineNumber extracts the start line of the first location, if any.
func resultLineNumber(result map[string]any) string {
	if value, ok := startLineExpr.First(result); ok {
		return pathexpr.Stringify(value)
	}
	return ""
}
