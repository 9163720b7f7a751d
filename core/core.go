// Package core holds the SARIF container model: runs, files and file sets,
// the record extraction logic, and the grouped issues report.
//
// Raw results are kept as the map[string]any trees decoded from JSON so that
// path-expression filtering and container round-tripping see full fidelity;
// all typed probing of those trees is centralized in result.go.
package core

// getMap returns a nested object field, or nil.
func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	ret, _ := m[key].(map[string]any)
	return ret
}

// getSlice returns a nested array field, or nil.
func getSlice(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	ret, _ := m[key].([]any)
	return ret
}

// getString returns a nested string field, or "".
func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	ret, _ := m[key].(string)
	return ret
}

// asMap converts an array element to an object, or nil.
func asMap(v any) map[string]any {
	ret, _ := v.(map[string]any)
	return ret
}
