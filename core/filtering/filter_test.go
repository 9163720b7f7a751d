package filtering

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// testResult builds a minimal result with a location URI, a line number and a
// blame author mail.
func testResult(uri string, line int, authorMail string) map[string]any {
	result := map[string]any{
		"ruleId": "R1",
		"locations": []any{
			map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": uri},
					"region":           map[string]any{"startLine": float64(line)},
				},
			},
		},
	}
	if authorMail != "" {
		result["properties"] = map[string]any{
			"blame": map[string]any{"author-mail": authorMail},
		}
	}
	return result
}

func newTestFilter(t *testing.T, config Configuration, include, exclude []RuleSpec) *GeneralFilter {
	t.Helper()
	f := NewGeneralFilter()
	require.NoError(t, f.Init("test filter", config, include, exclude))
	return f
}

func TestFilterInactiveByDefault(t *testing.T) {
	f := NewGeneralFilter()
	assert.False(t, f.Active())
	results := []map[string]any{testResult("src/main.c", 10, "")}
	assert.Equal(t, results, f.FilterResults(results))
	assert.Nil(t, f.Stats())
}

func TestIncludeBySubstring(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "@example.com"},
	}, nil)

	passed := f.FilterResults([]map[string]any{
		testResult("a.c", 10, "dev@example.com"),
		testResult("b.c", 20, "someone@elsewhere.org"),
	})
	require.Len(t, passed, 1)
	assert.Equal(t, 1, f.Stats().FilteredInCount)
	assert.Equal(t, 1, f.Stats().FilteredOutCount)

	annotation, ok := passed[0]["properties"].(map[string]any)["filtered"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, StateIncluded, annotation["state"])
	assert.Equal(t, "test filter", annotation["filter"])
}

func TestExcludeByRegex(t *testing.T) {
	f := newTestFilter(t, Configuration{}, nil, []RuleSpec{
		{"author-mail": "/^ci@/"},
	})

	passed := f.FilterResults([]map[string]any{
		testResult("a.c", 10, "ci@example.com"),
		testResult("b.c", 20, "dev@example.com"),
	})
	require.Len(t, passed, 1)
	assert.Equal(t, "dev@example.com",
		passed[0]["properties"].(map[string]any)["blame"].(map[string]any)["author-mail"])
}

func TestIncludeRulesAreORd(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "alice@example.com"},
		{"author-mail": "bob@example.com"},
	}, nil)

	passed := f.FilterResults([]map[string]any{
		testResult("a.c", 10, "alice@example.com"),
		testResult("b.c", 20, "bob@example.com"),
		testResult("c.c", 30, "carol@example.com"),
	})
	assert.Len(t, passed, 2)
}

func TestTermsWithinRuleAreANDd(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "@example.com", "location": "src/**"},
	}, nil)

	passed := f.FilterResults([]map[string]any{
		testResult("src/a.c", 10, "dev@example.com"),
		testResult("vendor/b.c", 20, "dev@example.com"),
	})
	require.Len(t, passed, 1)
	assert.Equal(t, "src/a.c",
		passed[0]["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)["artifactLocation"].(map[string]any)["uri"])
}

func TestLocationGlobMatching(t *testing.T) {
	tests := []struct {
		name     string
		glob     string
		uri      string
		expected bool
	}{
		{"double star crosses directories", "src/**/*.c", "src/deep/nested/x.c", true},
		{"single star stays in directory", "src/*.c", "src/x.c", true},
		{"single star does not cross directories", "src/*.c0", "src/deep/x.c0", false},
		{"question mark", "src/?.c", "src/a.c", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFilter(t, Configuration{}, []RuleSpec{{"location": tc.glob}}, nil)
			passed := f.FilterResults([]map[string]any{testResult(tc.uri, 10, "")})
			assert.Equal(t, tc.expected, len(passed) == 1)
		})
	}
}

func TestExistenceCheckWithEmptyValue(t *testing.T) {
	f := newTestFilter(t, Configuration{DefaultInclude: boolPtr(false)}, []RuleSpec{
		{"suppression": nil},
	}, nil)

	suppressed := testResult("a.c", 10, "")
	suppressed["suppressions"] = []any{map[string]any{"kind": "inSource"}}
	passed := f.FilterResults([]map[string]any{
		suppressed,
		testResult("b.c", 20, ""),
	})
	require.Len(t, passed, 1)
	assert.Equal(t, suppressed, passed[0])
}

func TestDefaultIncludeOnMissingProperty(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "@example.com"},
	}, nil)

	// No blame info at all, but the result has a convincing line number.
	passed := f.FilterResults([]map[string]any{testResult("a.c", 10, "")})
	require.Len(t, passed, 1)
	assert.Equal(t, 1, f.Stats().MissingPropertyCount)
	assert.Equal(t, 0, f.Stats().FilteredInCount)

	annotation := passed[0]["properties"].(map[string]any)["filtered"].(map[string]any)
	assert.Equal(t, StateNoProperty, annotation["state"])
	assert.NotEmpty(t, annotation["warnings"])
}

func TestDefaultIncludeFalseDropsMissingProperty(t *testing.T) {
	f := newTestFilter(t, Configuration{DefaultInclude: boolPtr(false)}, []RuleSpec{
		{"author-mail": "@example.com"},
	}, nil)

	passed := f.FilterResults([]map[string]any{testResult("a.c", 10, "")})
	assert.Empty(t, passed)
	assert.Equal(t, 1, f.Stats().FilteredOutCount)
}

func TestCheckLineNumberSkipsUnconvincingLines(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "nomatch@example.com"},
	}, nil)

	// Line 1 is treated as unreliable blame attribution, so the term is not
	// checked and the result passes with a warning.
	passed := f.FilterResults([]map[string]any{testResult("a.c", 1, "dev@example.com")})
	require.Len(t, passed, 1)
	assert.Equal(t, 1, f.Stats().UnconvincingLineNumbers)

	annotation := passed[0]["properties"].(map[string]any)["filtered"].(map[string]any)
	assert.Equal(t, StateNoLineNumber, annotation["state"])
}

func TestCheckLineNumberDisabled(t *testing.T) {
	f := newTestFilter(t, Configuration{CheckLineNumber: boolPtr(false)}, []RuleSpec{
		{"author-mail": "nomatch@example.com"},
	}, nil)

	passed := f.FilterResults([]map[string]any{testResult("a.c", 1, "dev@example.com")})
	assert.Empty(t, passed)
}

func TestFilteringLocationlessResults(t *testing.T) {
	// Results with no location have no line number, so every term is skipped
	// under the default line number check. Disabling it makes such results
	// filterable on their other fields.
	noLineCheck := Configuration{CheckLineNumber: boolPtr(false)}

	t.Run("include by rule id", func(t *testing.T) {
		f := newTestFilter(t, noLineCheck, []RuleSpec{{"ruleId": "test-rule"}}, nil)
		passed := f.FilterResults([]map[string]any{{"ruleId": "test-rule"}})
		require.Len(t, passed, 1)
		assert.Equal(t, 1, f.Stats().FilteredInCount)

		annotation := passed[0]["properties"].(map[string]any)["filtered"].(map[string]any)
		assert.Equal(t, StateIncluded, annotation["state"])
	})

	t.Run("exclude by level", func(t *testing.T) {
		f := newTestFilter(t, noLineCheck, nil, []RuleSpec{{"level": "error"}})
		passed := f.FilterResults([]map[string]any{
			{"level": "error"},
			{"level": "warning"},
			{"level": "error"},
		})
		require.Len(t, passed, 1)
		assert.Equal(t, "warning", passed[0]["level"])
		assert.Equal(t, 1, f.Stats().FilteredInCount)
		assert.Equal(t, 2, f.Stats().FilteredOutCount)
	})

	t.Run("default line check sweeps them into exclusions", func(t *testing.T) {
		// With the line number check on, exclusion terms are skipped and the
		// exclusion rule matches every location-less result.
		f := newTestFilter(t, Configuration{}, nil, []RuleSpec{{"level": "error"}})
		passed := f.FilterResults([]map[string]any{
			{"level": "error"},
			{"level": "warning"},
			{"level": "error"},
		})
		assert.Empty(t, passed)
		assert.Equal(t, 3, f.Stats().FilteredOutCount)
	})
}

func TestPerTermConfigOverride(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": map[string]any{"value": "nomatch@example.com", "check-line-number": false}},
	}, nil)

	passed := f.FilterResults([]map[string]any{testResult("a.c", 1, "dev@example.com")})
	assert.Empty(t, passed)
}

func TestRerunResetsStats(t *testing.T) {
	f := newTestFilter(t, Configuration{}, []RuleSpec{
		{"author-mail": "@example.com"},
	}, nil)

	results := []map[string]any{testResult("a.c", 10, "dev@example.com")}
	f.FilterResults(results)
	f.FilterResults(results)
	assert.Equal(t, 1, f.Stats().FilteredInCount)
}

func TestBadRuleFailsInit(t *testing.T) {
	f := NewGeneralFilter()
	err := f.Init("bad", Configuration{}, []RuleSpec{{"a..b": "x"}}, nil)
	assert.Error(t, err)

	err = f.Init("bad regex", Configuration{}, []RuleSpec{{"author-mail": "/(/"}}, nil)
	assert.Error(t, err)
}

func TestFilterStatsRoundTrip(t *testing.T) {
	stats := NewFilterStats("my filter")
	stats.FilteredInCount = 5
	stats.FilteredOutCount = 3
	stats.MissingPropertyCount = 2
	stats.UnconvincingLineNumbers = 1

	restored := FilterStatsFromPropertyBag(stats.ToPropertyBag())
	require.NotNil(t, restored)
	assert.True(t, restored.Rehydrated)
	assert.Equal(t, "my filter", restored.FilterDescription)
	assert.Equal(t, 5, restored.FilteredInCount)
	assert.Equal(t, 3, restored.FilteredOutCount)
	assert.Equal(t, 2, restored.MissingPropertyCount)
	assert.Equal(t, 1, restored.UnconvincingLineNumbers)

	assert.Nil(t, FilterStatsFromPropertyBag(nil))
}

func TestFilterStatsAdd(t *testing.T) {
	a := NewFilterStats("filter a")
	a.FilteredInCount = 1
	b := NewFilterStats("filter b")
	b.FilteredInCount = 2
	b.FilteredOutCount = 4

	merged := a.Copy()
	merged.Add(b)
	assert.Equal(t, "filter a, filter b", merged.FilterDescription)
	assert.Equal(t, 3, merged.FilteredInCount)
	assert.Equal(t, 4, merged.FilteredOutCount)
	// The originals are untouched.
	assert.Equal(t, 1, a.FilteredInCount)
}

func TestLoadFilterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.yaml")
	content := `description: Exclude test code
configuration:
  default-include: true
  check-line-number: false
exclude:
- location: "**/test/**"
- author-mail: ci@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	definition, err := LoadFilterFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Exclude test code", definition.Description)
	require.NotNil(t, definition.Configuration.CheckLineNumber)
	assert.False(t, *definition.Configuration.CheckLineNumber)
	assert.Len(t, definition.Exclude, 2)
	assert.Empty(t, definition.Include)
}

func TestLoadFilterFileDefaultsDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclude:\n- location: x\n"), 0o644))

	definition, err := LoadFilterFile(path)
	require.NoError(t, err)
	assert.Equal(t, "noname.yaml", definition.Description)
}

func TestLoadFilterFileErrors(t *testing.T) {
	_, err := LoadFilterFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\tnot yaml"), 0o644))
	_, err = LoadFilterFile(path)
	assert.Error(t, err)
}
