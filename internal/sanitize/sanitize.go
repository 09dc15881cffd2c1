// Package sanitize strips characters that would break the quoting or path
// rules of the textual context a value is embedded in.
package sanitize

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Mode selects the destination context of a sanitized value.
type Mode int

const (
	// File mode targets file-name contexts: path separators, wildcards and
	// quoting characters are replaced.
	File Mode = iota
	// Registry mode targets registry text: backslashes would be mistaken
	// for key-path separators and are replaced.
	Registry
	// Auto infers File for recognized executable suffixes, Registry otherwise.
	Auto
)

// InvalidFieldError reports a value that is not valid text.
type InvalidFieldError struct {
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field: value %q is not valid text", e.Value)
}

// executable suffixes that switch Auto mode to File.
var executableSuffixes = []string{".exe", ".com", ".bat", ".cmd", ".msi"}

// String cleans s for the given mode. The result never contains characters
// that break the destination context; sanitizing twice is a no-op.
func String(s string, mode Mode) (string, error) {
	if !utf8.ValidString(s) {
		return "", &InvalidFieldError{Value: s}
	}
	if s == "" {
		return "", nil
	}

	if mode == Auto {
		mode = Registry
		lower := strings.ToLower(s)
		for _, suffix := range executableSuffixes {
			if strings.HasSuffix(lower, suffix) {
				mode = File
				break
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 32:
			sb.WriteByte('_')
		case mode == File && strings.ContainsRune(`<>:"/\|?*`, r):
			sb.WriteByte('_')
		case mode == Registry && r == '\\':
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}

	out := collapseUnderscores(sb.String())
	return strings.Trim(out, "_"), nil
}

// collapseUnderscores reduces every run of underscores to a single one.
func collapseUnderscores(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == '_' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
