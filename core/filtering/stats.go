package filtering

import (
	"fmt"
	"strings"
	"time"
)

// FilterStats records the outcome of applying a filter to a set of results.
// Stats can also be rehydrated from a file written by `sarq copy`, in which
// case Rehydrated is true and the counters reflect the earlier run.
type FilterStats struct {
	FilterDescription string
	Rehydrated        bool
	FilterDatetime    time.Time

	FilteredInCount         int
	FilteredOutCount        int
	MissingPropertyCount    int
	UnconvincingLineNumbers int
}

// NewFilterStats returns zeroed stats labelled with the filter description.
func NewFilterStats(description string) *FilterStats {
	return &FilterStats{FilterDescription: description}
}

// Reset zeroes all the counters and stamps the current time.
func (s *FilterStats) Reset() {
	s.FilterDatetime = time.Now()
	s.FilteredInCount = 0
	s.FilteredOutCount = 0
	s.MissingPropertyCount = 0
	s.UnconvincingLineNumbers = 0
}

// Add accumulates another set of filter stats into this one. Distinct
// descriptions are concatenated so that merged stats name every filter that
// contributed.
func (s *FilterStats) Add(other *FilterStats) {
	if other == nil {
		return
	}
	if other.FilterDescription != "" && other.FilterDescription != s.FilterDescription {
		s.FilterDescription += ", " + other.FilterDescription
	}
	s.FilteredInCount += other.FilteredInCount
	s.FilteredOutCount += other.FilteredOutCount
	s.MissingPropertyCount += other.MissingPropertyCount
	s.UnconvincingLineNumbers += other.UnconvincingLineNumbers
}

// Copy returns a shallow copy, used when aggregating stats across files.
func (s *FilterStats) Copy() *FilterStats {
	ret := *s
	return &ret
}

// String generates the human-readable summary for these filter stats.
func (s *FilterStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%s'", s.FilterDescription)
	if !s.FilterDatetime.IsZero() {
		b.WriteString(" at ")
		b.WriteString(s.FilterDatetime.Format(time.ANSIC))
	}
	fmt.Fprintf(&b, ": %d filtered out, %d passed the filter", s.FilteredOutCount, s.FilteredInCount)
	if s.UnconvincingLineNumbers > 0 {
		fmt.Fprintf(&b, ", %d included by default for lacking line number information", s.UnconvincingLineNumbers)
	}
	if s.MissingPropertyCount > 0 {
		fmt.Fprintf(&b, ", %d included by default for lacking data to filter", s.MissingPropertyCount)
	}
	return b.String()
}

// ToPropertyBag generates the compact camelCase form embedded in a SARIF
// property bag (standard section 3.8.1), so that filter provenance survives a
// round trip through `sarq copy`.
func (s *FilterStats) ToPropertyBag() map[string]any {
	return map[string]any{
		"filter": s.FilterDescription,
		"in":     s.FilteredInCount,
		"out":    s.FilteredOutCount,
		"default": map[string]any{
			"noProperty":   s.MissingPropertyCount,
			"noLineNumber": s.UnconvincingLineNumbers,
		},
	}
}

// FilterStatsFromPropertyBag restores stats from the compact property bag
// form. Returns nil when the bag is empty.
func FilterStatsFromPropertyBag(bag map[string]any) *FilterStats {
	if len(bag) == 0 {
		return nil
	}
	ret := NewFilterStats(bagString(bag, "filter"))
	ret.Rehydrated = true
	ret.FilteredInCount = bagInt(bag, "in")
	ret.FilteredOutCount = bagInt(bag, "out")
	if defaults, ok := bag["default"].(map[string]any); ok {
		ret.MissingPropertyCount = bagInt(defaults, "noProperty")
		ret.UnconvincingLineNumbers = bagInt(defaults, "noLineNumber")
	}
	return ret
}

func bagString(bag map[string]any, key string) string {
	if s, ok := bag[key].(string); ok {
		return s
	}
	return ""
}

// bagInt tolerates both native ints and float64 from JSON decoding.
func bagInt(bag map[string]any, key string) int {
	switch v := bag[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
