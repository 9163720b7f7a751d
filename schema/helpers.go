package schema

import (
	"strings"
)

// displayKeyBudget is the maximum length of a combined code + description key.
const displayKeyBudget = 120

// continuationPlaceholder marks a truncated description.
const continuationPlaceholder = " ..."

// CombineCodeAndDescription combines an issue code and description into one
// string, keeping the total length under 120 characters. The description is
// cut at the first newline, deduplicated against the code prefix, and
// shortened at a word boundary where possible. If the code leaves too little
// room, the description is omitted entirely.
func CombineCodeAndDescription(code, description string) string {
	budget := displayKeyBudget
	code = strings.TrimSpace(code)
	if code != "" {
		budget -= len(code) + 1 // allow issue code and space character
	}
	// Allow extra space when truncating for continuation characters
	budgetPreContinuation := budget - len(continuationPlaceholder)
	if budgetPreContinuation < 10 {
		// Don't include description if it would be very short due to long code
		return code
	}
	if description != "" {
		if nl := strings.IndexByte(description, '\n'); nl >= 0 {
			description = description[:nl]
		}
		if code != "" && strings.HasPrefix(description, code) {
			// Don't duplicate the code
			description = description[len(code):]
		}
		description = strings.TrimSpace(description)
	}
	if description != "" {
		if len(description) > budget {
			shorter := shortenAtWordBoundary(description, budgetPreContinuation)
			if len(shorter) < budgetPreContinuation-40 {
				// Word wrap shortens the description significantly, so truncate mid-word instead
				description = description[:budgetPreContinuation] + continuationPlaceholder
			} else {
				description = shorter
			}
		}
		if code != "" {
			return code + " " + description
		}
		return description
	}
	if code != "" {
		return code
	}
	return "<NONE>"
}

// shortenAtWordBoundary collapses whitespace and drops trailing words until
// the text plus the continuation placeholder fits within width.
func shortenAtWordBoundary(text string, width int) string {
	words := strings.Fields(text)
	collapsed := strings.Join(words, " ")
	if len(collapsed) <= width {
		return collapsed
	}
	var kept string
	for _, word := range words {
		candidate := word
		if kept != "" {
			candidate = kept + " " + word
		}
		if len(candidate)+len(continuationPlaceholder) > width {
			break
		}
		kept = candidate
	}
	if kept == "" {
		return strings.TrimSpace(continuationPlaceholder)
	}
	return kept + continuationPlaceholder
}

// CombineRecordCodeAndDescription combines the record's code and description
// fields into one display key.
func CombineRecordCodeAndDescription(r *Record) string {
	return CombineCodeAndDescription(r.Code, r.Description)
}

// RecordSortKey gives a stable sort key so that regrouping and re-sorting is
// idempotent and independent of input order. The line number is zero-padded
// so that string order matches numeric order.
func RecordSortKey(r *Record) string {
	return CombineRecordCodeAndDescription(r) + r.Location + ZeroPadLine(r.Line)
}

// ZeroPadLine pads a line number string with leading zeroes to six digits.
func ZeroPadLine(line string) string {
	if len(line) >= 6 {
		return line
	}
	return strings.Repeat("0", 6-len(line)) + line
}
