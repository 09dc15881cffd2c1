// Package ledger records the automatic corrections applied during one
// synthesis run. The ledger is append-only and ordered; it is emitted
// verbatim into the generated script so no installer silently differs from
// its declared configuration.
package ledger

import (
	"fmt"
	"strings"
)

// Ledger is an ordered audit log of corrections and rejections.
// The zero value is ready to use.
type Ledger struct {
	entries []string
}

// Addf appends a formatted entry.
func (l *Ledger) Addf(format string, args ...interface{}) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns the recorded entries in order.
func (l *Ledger) Entries() []string {
	return l.entries
}

// Empty reports whether nothing was recorded.
func (l *Ledger) Empty() bool {
	return len(l.entries) == 0
}

// CommentBlock renders the ledger as a trailing NSIS comment block, or an
// empty string when no adjustments were recorded.
func (l *Ledger) CommentBlock() string {
	if l.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(";=============================================================================\n")
	sb.WriteString("; Adjustments applied during script generation:\n")
	for _, e := range l.entries {
		sb.WriteString(";   - ")
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	return sb.String()
}
