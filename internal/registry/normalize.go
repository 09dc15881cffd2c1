// Package registry corrects or rejects the registry rows of a project
// before script assembly. Corrections are silent for the caller but every
// one of them leaves a ledger entry.
package registry

import (
	"strconv"
	"strings"

	"github.com/digidigital/nsigen/internal/ledger"
	"github.com/digidigital/nsigen/internal/model"
)

// Normalize returns the cleaned rows in their original order. Rows with an
// unusable key, data, or dword literal are dropped; a row's hive is always
// forced to match the installation scope. Each rewrite or rejection appends
// exactly one entry to lg.
func Normalize(rows []model.RegistryEntry, defaultHive model.Hive, lg *ledger.Ledger) []model.RegistryEntry {
	clean := make([]model.RegistryEntry, 0, len(rows))
	for i, row := range rows {
		if row.Root != defaultHive {
			lg.Addf("registry row %d: root %q rewritten to %q to match installation scope",
				i+1, string(row.Root), string(defaultHive))
			row.Root = defaultHive
		}

		row.Key = NormalizeKey(row.Key)

		if row.Key == "" || row.Data == "" {
			lg.Addf("registry row %d: dropped, key or data empty (key=%q, data=%q)",
				i+1, row.Key, row.Data)
			continue
		}

		if row.Kind == model.KindDword && !ValidDwordLiteral(row.Data) {
			lg.Addf("registry row %d: dropped, %q is not a valid DWORD literal (decimal or 0x-prefixed hex)",
				i+1, row.Data)
			continue
		}

		clean = append(clean, row)
	}
	return clean
}

// NormalizeKey escapes a registry key path for the script dialect: every
// backslash that is not already doubled is doubled, then leading and
// trailing backslashes are trimmed.
func NormalizeKey(key string) string {
	key = strings.Trim(key, "\\")
	if key == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(key) * 2)
	run := 0
	flush := func() {
		if run == 0 {
			return
		}
		// An odd run has one unescaped backslash left over.
		if run%2 != 0 {
			run++
		}
		sb.WriteString(strings.Repeat("\\", run))
		run = 0
	}
	for _, r := range key {
		if r == '\\' {
			run++
			continue
		}
		flush()
		sb.WriteRune(r)
	}
	flush()
	return sb.String()
}

// ValidDwordLiteral reports whether data parses as a bare decimal integer
// or a 0x-prefixed hexadecimal integer.
func ValidDwordLiteral(data string) bool {
	if strings.HasPrefix(data, "0x") || strings.HasPrefix(data, "0X") {
		_, err := strconv.ParseUint(data[2:], 16, 64)
		return err == nil
	}
	_, err := strconv.ParseInt(data, 10, 64)
	return err == nil
}
