package pathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() map[string]any {
	return map[string]any{
		"ruleId": "DS176209",
		"locations": []any{
			map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": "src/main.c"},
					"region":           map[string]any{"startLine": float64(12)},
				},
			},
			map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": "src/other.c"},
				},
			},
		},
		"suppressions": []any{
			map[string]any{"kind": "inSource"},
		},
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"empty segment", "a..b"},
		{"unterminated index", "a[0"},
		{"index without field", "[0].a"},
		{"negative index", "a[-1]"},
		{"non-numeric index", "a[x]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.path)
			assert.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	data := sampleResult()

	tests := []struct {
		name     string
		path     string
		expected []any
	}{
		{"plain field", "ruleId", []any{"DS176209"}},
		{
			"indexed path", "locations[0].physicalLocation.artifactLocation.uri",
			[]any{"src/main.c"},
		},
		{
			"wildcard fans out", "locations[*].physicalLocation.artifactLocation.uri",
			[]any{"src/main.c", "src/other.c"},
		},
		{"numeric leaf", "locations[0].physicalLocation.region.startLine", []any{float64(12)}},
		{"suppression kind", "suppressions[*].kind", []any{"inSource"}},
		{"missing field", "nosuchfield", nil},
		{"out of range index", "locations[5].physicalLocation", nil},
		{"index into non-array", "ruleId[0]", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, expr.Find(data))
		})
	}
}

func TestFirst(t *testing.T) {
	expr := MustParse("locations[*].physicalLocation.artifactLocation.uri")
	value, ok := expr.First(sampleResult())
	require.True(t, ok)
	assert.Equal(t, "src/main.c", value)

	_, ok = MustParse("missing.path").First(sampleResult())
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "text", Stringify("text"))
	assert.Equal(t, "12", Stringify(float64(12)))
	assert.Equal(t, "12.5", Stringify(12.5))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "7", Stringify(7))
	assert.Equal(t, "", Stringify(nil))
}

func TestStringRoundTrip(t *testing.T) {
	const path = "locations[*].physicalLocation.artifactLocation.uri"
	assert.Equal(t, path, MustParse(path).String())
}
