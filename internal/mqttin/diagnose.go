package mqttin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Diagnose inspects a payload that failed to parse as JSON and returns a list
// of byte-level findings: unbalanced braces or brackets, trailing commas,
// control characters, and the context around the syntax error offset. It is
// purely informational; malformed messages are dropped either way.
func Diagnose(payload []byte, parseErr error) []string {
	var issues []string

	openBraces := bytes.Count(payload, []byte("{"))
	closeBraces := bytes.Count(payload, []byte("}"))
	if openBraces != closeBraces {
		issues = append(issues, fmt.Sprintf("unbalanced braces: %d open, %d close", openBraces, closeBraces))
	}

	openBrackets := bytes.Count(payload, []byte("["))
	closeBrackets := bytes.Count(payload, []byte("]"))
	if openBrackets != closeBrackets {
		issues = append(issues, fmt.Sprintf("unbalanced brackets: %d open, %d close", openBrackets, closeBrackets))
	}

	if bytes.Contains(payload, []byte(",}")) || bytes.Contains(payload, []byte(",]")) {
		issues = append(issues, "trailing comma detected")
	}

	var controls []int
	for _, b := range payload {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			controls = append(controls, int(b))
		}
	}
	if len(controls) > 0 {
		issues = append(issues, fmt.Sprintf("control characters detected: %v", controls))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(parseErr, &syntaxErr) {
		pos := int(syntaxErr.Offset)
		start := pos - 20
		if start < 0 {
			start = 0
		}
		end := pos + 20
		if end > len(payload) {
			end = len(payload)
		}
		issues = append(issues, fmt.Sprintf("syntax error near offset %d: %q", pos, payload[start:end]))
	}

	return issues
}
