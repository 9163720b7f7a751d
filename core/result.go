package core

import (
	"fmt"
	"strings"

	"github.com/statice-dev/sarq/core/pathexpr"
	"github.com/statice-dev/sarq/schema"
)

// missingLocation is the placeholder path for results without any location.
// A result having a location is only a "SHOULD" in SARIF spec section
// 3.27.12, and tools such as GCC 13 can emit issues with no location.
const missingLocation = "-"

// readResultLocation extracts the file path and line number strings from a
// result. Tools store the location in different ways, so a few JSON
// locations are probed in order. Both values are empty when nothing is
// present; callers substitute defaults instead of erroring.
func readResultLocation(result map[string]any) (filePath, lineNumber string) {
	locations := getSlice(result, "locations")
	if len(locations) == 0 {
		return "", ""
	}
	location := asMap(locations[0])
	physical := getMap(location, "physicalLocation")
	// Some SpotBugs errors have no line number; leave it empty here.
	if region := getMap(physical, "region"); region != nil {
		if line, ok := region["startLine"]; ok {
			lineNumber = pathexpr.Stringify(line)
		}
	}
	// First try the address written by DevSkim
	filePath = getString(getMap(physical, "address"), "fullyQualifiedName")
	if filePath == "" {
		// Next try the physical location written by MobSF and by SpotBugs
		filePath = getString(getMap(physical, "artifactLocation"), "uri")
	}
	if filePath == "" {
		// Finally, try the logical location written by SpotBugs for some errors
		if logical := getSlice(location, "logicalLocations"); len(logical) > 0 {
			filePath = getString(asMap(logical[0]), "fullyQualifiedName")
		}
	}
	return filePath, lineNumber
}

// resolveSeverity applies the SARIF level-resolution decision table
// (standard section 3.27.10) for one result within its run context.
//
// An explicit level always wins. A result with a kind other than "fail" is
// informational ("none"). Otherwise the rule descriptor decides: a matching
// invocation configuration override first, then the rule's own default
// configuration. An unresolvable rule index or id falls through to
// "warning" rather than erroring.
func (r *Run) resolveSeverity(result map[string]any) schema.Severity {
	if level := getString(result, "level"); level != "" {
		return schema.Severity(level)
	}
	if kind := getString(result, "kind"); kind != "" && kind != "fail" {
		return schema.SeverityNone
	}
	rule, ruleIndex := r.resolveRule(result)
	if rule != nil {
		if level := r.overrideLevel(ruleIndex, getString(rule, "id")); level != "" {
			return schema.Severity(level)
		}
		if level := getString(getMap(rule, "defaultConfiguration"), "level"); level != "" {
			return schema.Severity(level)
		}
	}
	return schema.SeverityWarning
}

// resolveRule finds the reporting descriptor for a result: by explicit
// ruleIndex, by the nested rule object's index or id, or by ruleId lookup
// into the driver rule table. Returns (nil, -1) when unresolvable.
func (r *Run) resolveRule(result map[string]any) (map[string]any, int) {
	rules := r.driverRules()
	lookup := func(index int) (map[string]any, int) {
		if index >= 0 && index < len(rules) {
			return asMap(rules[index]), index
		}
		return nil, -1
	}
	if index, ok := intField(result, "ruleIndex"); ok {
		return lookup(index)
	}
	if ruleRef := getMap(result, "rule"); ruleRef != nil {
		if index, ok := intField(ruleRef, "index"); ok {
			return lookup(index)
		}
		if id := getString(ruleRef, "id"); id != "" {
			return r.ruleByID(rules, id)
		}
	}
	if id := getString(result, "ruleId"); id != "" {
		return r.ruleByID(rules, id)
	}
	return nil, -1
}

func (r *Run) ruleByID(rules []any, id string) (map[string]any, int) {
	for index, raw := range rules {
		if rule := asMap(raw); getString(rule, "id") == id {
			return rule, index
		}
	}
	return nil, -1
}

// overrideLevel returns the level from an invocation rule configuration
// override matching the rule, or "".
func (r *Run) overrideLevel(ruleIndex int, ruleID string) string {
	for _, rawInvocation := range getSlice(r.data, "invocations") {
		invocation := asMap(rawInvocation)
		for _, rawOverride := range getSlice(invocation, "ruleConfigurationOverrides") {
			override := asMap(rawOverride)
			descriptor := getMap(override, "descriptor")
			if descriptor == nil {
				continue
			}
			matched := false
			if index, ok := intField(descriptor, "index"); ok {
				matched = index == ruleIndex && ruleIndex >= 0
			} else if id := getString(descriptor, "id"); id != "" {
				matched = id == ruleID
			}
			if matched {
				if level := getString(getMap(override, "configuration"), "level"); level != "" {
					return level
				}
			}
		}
	}
	return ""
}

// driverRules returns the tool driver's reporting descriptor list.
func (r *Run) driverRules() []any {
	return getSlice(getMap(getMap(r.data, "tool"), "driver"), "rules")
}

// intField reads a numeric field, tolerating the float64 that encoding/json
// produces.
func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// resultToRecord converts a SARIF result object to a flattened record.
//
// A result whose message object has neither text nor id violates the
// format's minimal contract and is a hard error; a result with no message at
// all falls back to the rule id.
func (r *Run) resultToRecord(result map[string]any, includeBlameInfo bool) (*schema.Record, error) {
	code := getString(result, "ruleId")
	toolName := r.ToolName()
	filePath, lineNumber := readResultLocation(result)
	if filePath == "" {
		filePath = missingLocation
	}
	if lineNumber == "" {
		lineNumber = r.defaultLineNumber
	}
	filePath = r.stripPathPrefix(filePath)

	var message string
	if messageData := getMap(result, "message"); messageData != nil {
		if text, ok := messageData["text"].(string); ok {
			message = text
		} else if id, ok := messageData["id"].(string); ok {
			message = id
		} else {
			return nil, fmt.Errorf(
				"message for result %s from tool %s has neither text nor id; "+
					"at least one SHALL be present per SARIF section 3.11", code, toolName)
		}
	} else {
		message = code
	}

	description := message
	if code != "" && strings.HasPrefix(message, code) && len(message) > len(code)+1 {
		// Don't repeat the code at the start of the description
		description = strings.TrimSpace(message[len(code)+1:])
	}

	record := &schema.Record{
		Tool:        toolName,
		Location:    filePath,
		Line:        lineNumber,
		Severity:    r.resolveSeverity(result),
		Code:        code,
		Description: description,
	}
	if includeBlameInfo {
		record.Author = authorMailFromBlame(getMap(getMap(result, "properties"), "blame"))
	}
	return record, nil
}

// stripPathPrefix removes the first configured path prefix matching the
// start of the path, comparing case-insensitively and dropping a trailing
// path separator.
func (r *Run) stripPathPrefix(filePath string) string {
	if len(r.pathPrefixesUpper) == 0 {
		return filePath
	}
	upper := strings.ToUpper(filePath)
	for _, prefix := range r.pathPrefixesUpper {
		if !strings.HasPrefix(upper, prefix) {
			continue
		}
		rest := filePath[len(prefix):]
		if len(rest) > 0 && (rest[0] == '/' || rest[0] == '\\') {
			rest = rest[1:]
		}
		return rest
	}
	return filePath
}

// authorMailFromBlame picks the author mail, falling back to the committer
// mail, from a blame property bag.
func authorMailFromBlame(blame map[string]any) string {
	if blame == nil {
		return ""
	}
	if mail := getString(blame, "author-mail"); mail != "" {
		return mail
	}
	return getString(blame, "committer-mail")
}
