// Package pathexpr implements a minimal path expression language over
// semi-structured JSON data (maps and slices as decoded by encoding/json).
//
// An expression is a dot-separated chain of field accesses, where each field
// may carry an array suffix: a numeric index ("locations[0]") or a wildcard
// ("locations[*]") that fans out over every element. This covers the subset
// of JSONPath needed by filter definitions while keeping the evaluation
// semantics fully specified and testable in isolation.
package pathexpr

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	noIndex       = -1
	wildcardIndex = -2
)

// segment is one step of a compiled expression.
type segment struct {
	field string
	index int // noIndex, wildcardIndex, or a concrete array index
}

// Expr is a compiled path expression.
type Expr struct {
	raw      string
	segments []segment
}

// Parse compiles a path expression. Malformed expressions are rejected here
// so that rule-set loading fails fast instead of erroring per record.
func Parse(path string) (*Expr, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty path expression")
	}
	var segments []segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("path expression %q has an empty segment", path)
		}
		seg := segment{index: noIndex}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("path expression %q has an unterminated index in %q", path, part)
			}
			inner := part[open+1 : len(part)-1]
			seg.field = part[:open]
			if seg.field == "" {
				return nil, fmt.Errorf("path expression %q has an index without a field in %q", path, part)
			}
			if inner == "*" {
				seg.index = wildcardIndex
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil || idx < 0 {
					return nil, fmt.Errorf("path expression %q has invalid index %q", path, inner)
				}
				seg.index = idx
			}
		} else {
			seg.field = part
		}
		if strings.ContainsAny(seg.field, "[]") {
			return nil, fmt.Errorf("path expression %q has a malformed segment %q", path, part)
		}
		segments = append(segments, seg)
	}
	return &Expr{raw: path, segments: segments}, nil
}

// MustParse is Parse for expressions known to be valid, such as the built-in
// filter shortcuts.
func MustParse(path string) *Expr {
	expr, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return expr
}

// String returns the original expression text.
func (e *Expr) String() string {
	return e.raw
}

// Find evaluates the expression against data and returns all matching values
// in document order. A missing field or out-of-range index yields no matches
// rather than an error.
func (e *Expr) Find(data any) []any {
	current := []any{data}
	for _, seg := range e.segments {
		var next []any
		for _, node := range current {
			obj, ok := node.(map[string]any)
			if !ok {
				continue
			}
			value, ok := obj[seg.field]
			if !ok {
				continue
			}
			switch seg.index {
			case noIndex:
				next = append(next, value)
			case wildcardIndex:
				arr, ok := value.([]any)
				if !ok {
					continue
				}
				next = append(next, arr...)
			default:
				arr, ok := value.([]any)
				if !ok || seg.index >= len(arr) {
					continue
				}
				next = append(next, arr[seg.index])
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// First returns the first matching value, or false when there is none.
func (e *Expr) First(data any) (any, bool) {
	found := e.Find(data)
	if len(found) == 0 {
		return nil, false
	}
	return found[0], true
}

// Stringify renders a matched scalar for substring or regex matching.
// JSON numbers arrive as float64 and are rendered without a trailing ".0".
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
