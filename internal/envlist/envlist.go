// Package envlist implements the algebra over semicolon-separated
// environment variable values. Both operations work on exact tokens, never
// substrings, so removing "bin" cannot damage a "bin2" element. The NSIS
// helper routines emitted by the assembler implement the same semantics.
package envlist

import "strings"

// tokens splits list on ';' and drops empty elements.
func tokens(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ";")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Add removes every existing occurrence of fragment from list and appends
// it as the last element. Adding an already-present fragment is idempotent.
func Add(list, fragment string) string {
	kept := tokens(list)
	filtered := make([]string, 0, len(kept)+1)
	for _, t := range kept {
		if t != fragment {
			filtered = append(filtered, t)
		}
	}
	filtered = append(filtered, fragment)
	return strings.Join(filtered, ";")
}

// Remove deletes every occurrence of fragment from list and collapses the
// delimiters left behind. An empty result means the caller must delete the
// variable entirely; an empty stored value is not the same as "absent".
func Remove(list, fragment string) string {
	kept := tokens(list)
	filtered := make([]string, 0, len(kept))
	for _, t := range kept {
		if t != fragment {
			filtered = append(filtered, t)
		}
	}
	return strings.Join(filtered, ";")
}
