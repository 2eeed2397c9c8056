// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, markdown reports, and logs.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import "strings"

// --- Defect status ---

var statuses = map[string]string{
	"open":  "Open",
	"fixed": "Fixed",
}

// Status returns the human-readable name for a defect status code.
// Unknown codes are returned as-is.
func Status(code string) string {
	if name, ok := statuses[code]; ok {
		return name
	}
	return code
}

// --- Severity ---

var severities = map[string]string{
	"critical": "Critical",
	"high":     "High",
	"medium":   "Medium",
	"low":      "Low",
}

// Severity returns the human-readable name for a severity code.
// Unknown codes are title-cased as a fallback.
func Severity(code string) string {
	if name, ok := severities[code]; ok {
		return name
	}
	if code == "" {
		return ""
	}
	return strings.ToUpper(code[:1]) + code[1:]
}

// SeverityWithCode returns "Critical (critical)" format for reports that
// keep the raw code visible.
func SeverityWithCode(code string) string {
	if name, ok := severities[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Run outcome results ---

var results = map[string]string{
	"passed":  "Passed",
	"failed":  "Failed",
	"skipped": "Skipped",
}

// Result returns the human-readable name for an outcome result code.
func Result(code string) string {
	if name, ok := results[code]; ok {
		return name
	}
	return code
}
