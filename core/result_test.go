package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statice-dev/sarq/schema"
)

// runData builds a run object for a tool with the given rules and results.
func runData(toolName string, rules []any, results []any) map[string]any {
	driver := map[string]any{"name": toolName}
	if rules != nil {
		driver["rules"] = rules
	}
	return map[string]any{
		"tool":    map[string]any{"driver": driver},
		"results": results,
	}
}

func resultWithURI(uri string, line float64) map[string]any {
	return map[string]any{
		"ruleId":  "R1",
		"message": map[string]any{"text": "a problem"},
		"locations": []any{
			map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": uri},
					"region":           map[string]any{"startLine": line},
				},
			},
		},
	}
}

func TestReadResultLocation(t *testing.T) {
	tests := []struct {
		name         string
		result       map[string]any
		expectedPath string
		expectedLine string
	}{
		{
			name:         "artifact location uri",
			result:       resultWithURI("src/main.c", 12),
			expectedPath: "src/main.c",
			expectedLine: "12",
		},
		{
			name: "address takes precedence",
			result: map[string]any{
				"locations": []any{
					map[string]any{
						"physicalLocation": map[string]any{
							"address":          map[string]any{"fullyQualifiedName": "app/binary"},
							"artifactLocation": map[string]any{"uri": "ignored.c"},
						},
					},
				},
			},
			expectedPath: "app/binary",
			expectedLine: "",
		},
		{
			name: "logical location fallback",
			result: map[string]any{
				"locations": []any{
					map[string]any{
						"logicalLocations": []any{
							map[string]any{"fullyQualifiedName": "com.example.Class"},
						},
					},
				},
			},
			expectedPath: "com.example.Class",
			expectedLine: "",
		},
		{
			name:         "no locations",
			result:       map[string]any{"ruleId": "R1"},
			expectedPath: "",
			expectedLine: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, line := readResultLocation(tc.result)
			assert.Equal(t, tc.expectedPath, path)
			assert.Equal(t, tc.expectedLine, line)
		})
	}
}

func TestResolveSeverity(t *testing.T) {
	rules := []any{
		map[string]any{
			"id":                   "R0",
			"defaultConfiguration": map[string]any{"level": "error"},
		},
		map[string]any{"id": "R1"},
	}

	tests := []struct {
		name     string
		run      map[string]any
		result   map[string]any
		expected schema.Severity
	}{
		{
			name:     "explicit level wins",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"level": "note", "ruleId": "R0"},
			expected: schema.SeverityNote,
		},
		{
			name:     "non-fail kind is informational",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"kind": "pass", "ruleId": "R0"},
			expected: schema.SeverityNone,
		},
		{
			name:     "fail kind still consults the rule",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"kind": "fail", "ruleId": "R0"},
			expected: schema.SeverityError,
		},
		{
			name:     "rule default configuration by ruleIndex",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"ruleIndex": float64(0)},
			expected: schema.SeverityError,
		},
		{
			name:     "rule default configuration by ruleId lookup",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"ruleId": "R0"},
			expected: schema.SeverityError,
		},
		{
			name:     "nested rule reference by index",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"rule": map[string]any{"index": float64(0)}},
			expected: schema.SeverityError,
		},
		{
			name:     "rule without default configuration",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"ruleId": "R1"},
			expected: schema.SeverityWarning,
		},
		{
			name:     "unresolvable rule id",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"ruleId": "R999"},
			expected: schema.SeverityWarning,
		},
		{
			name:     "out of range ruleIndex",
			run:      runData("tool", rules, nil),
			result:   map[string]any{"ruleIndex": float64(99)},
			expected: schema.SeverityWarning,
		},
		{
			name:     "no rule information at all",
			run:      runData("tool", nil, nil),
			result:   map[string]any{},
			expected: schema.SeverityWarning,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := NewRun(nil, 0, tc.run)
			assert.Equal(t, tc.expected, run.resolveSeverity(tc.result))
		})
	}
}

func TestResolveSeverityInvocationOverride(t *testing.T) {
	data := runData("tool", []any{
		map[string]any{
			"id":                   "R0",
			"defaultConfiguration": map[string]any{"level": "note"},
		},
	}, nil)
	data["invocations"] = []any{
		map[string]any{
			"ruleConfigurationOverrides": []any{
				map[string]any{
					"descriptor":    map[string]any{"id": "R0"},
					"configuration": map[string]any{"level": "error"},
				},
			},
		},
	}
	run := NewRun(nil, 0, data)

	// The invocation override beats the rule's default configuration.
	assert.Equal(t, schema.SeverityError, run.resolveSeverity(map[string]any{"ruleId": "R0"}))
}

func TestResultToRecord(t *testing.T) {
	run := NewRun(nil, 0, runData("devskim", nil, nil))

	record, err := run.resultToRecord(resultWithURI("src/main.c", 12), false)
	require.NoError(t, err)
	assert.Equal(t, "devskim", record.Tool)
	assert.Equal(t, "src/main.c", record.Location)
	assert.Equal(t, "12", record.Line)
	assert.Equal(t, "R1", record.Code)
	assert.Equal(t, "a problem", record.Description)
	assert.Equal(t, schema.SeverityWarning, record.Severity)
}

func TestResultToRecordMessageHandling(t *testing.T) {
	run := NewRun(nil, 0, runData("tool", nil, nil))

	t.Run("message id fallback", func(t *testing.T) {
		result := map[string]any{"ruleId": "R1", "message": map[string]any{"id": "msg1"}}
		record, err := run.resultToRecord(result, false)
		require.NoError(t, err)
		assert.Equal(t, "msg1", record.Description)
	})

	t.Run("message without text or id errors", func(t *testing.T) {
		result := map[string]any{"ruleId": "R1", "message": map[string]any{}}
		_, err := run.resultToRecord(result, false)
		assert.Error(t, err)
	})

	t.Run("no message falls back to code", func(t *testing.T) {
		result := map[string]any{"ruleId": "R1"}
		record, err := run.resultToRecord(result, false)
		require.NoError(t, err)
		assert.Equal(t, "R1", record.Description)
	})

	t.Run("code prefix stripped from description", func(t *testing.T) {
		result := map[string]any{
			"ruleId":  "R1",
			"message": map[string]any{"text": "R1 something went wrong"},
		}
		record, err := run.resultToRecord(result, false)
		require.NoError(t, err)
		assert.Equal(t, "something went wrong", record.Description)
	})

	t.Run("missing location placeholder", func(t *testing.T) {
		result := map[string]any{"ruleId": "R1", "message": map[string]any{"text": "x"}}
		record, err := run.resultToRecord(result, false)
		require.NoError(t, err)
		assert.Equal(t, "-", record.Location)
	})
}

func TestPathPrefixStripping(t *testing.T) {
	run := NewRun(nil, 0, runData("tool", nil, []any{
		resultWithURI("C:\\repo\\src\\main.c", 10),
	}))
	require.NoError(t, run.InitPathPrefixStripping(false, []string{"c:\\repo"}))

	records, err := run.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Prefix comparison is case-insensitive and eats the separator.
	assert.Equal(t, "src\\main.c", records[0].Location)
}

func TestAutotrimCommonPrefix(t *testing.T) {
	run := NewRun(nil, 0, runData("tool", nil, []any{
		resultWithURI("/checkout/src/a.c", 1),
		resultWithURI("/checkout/src/b.c", 2),
	}))
	require.NoError(t, run.InitPathPrefixStripping(true, nil))

	records, err := run.Records()
	require.NoError(t, err)
	assert.Equal(t, "a.c", records[0].Location)
	assert.Equal(t, "b.c", records[1].Location)
}

func TestDefaultLineNumber(t *testing.T) {
	run := NewRun(nil, 0, runData("tool", nil, []any{
		map[string]any{"ruleId": "R1", "message": map[string]any{"text": "x"}},
	}))
	run.InitDefaultLineNumber()

	records, err := run.Records()
	require.NoError(t, err)
	assert.Equal(t, "1", records[0].Line)
}

func TestBlameAuthorExtraction(t *testing.T) {
	result := resultWithURI("a.c", 5)
	result["properties"] = map[string]any{
		"blame": map[string]any{"committer-mail": "<committer@example.com>"},
	}
	run := NewRun(nil, 0, runData("tool", nil, []any{result}))

	assert.True(t, run.HasBlameInfo())
	records, err := run.Records()
	require.NoError(t, err)
	assert.Equal(t, "<committer@example.com>", records[0].Author)
}
