// Package scriptfile writes generated installer scripts to disk in the
// encoding and line-ending convention the script compiler expects.
package scriptfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// utf8BOM marks a script as Unicode for the compiler.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Name derives the script filename from the application name and version,
// with spaces replaced so the name survives unquoted command lines.
func Name(appName, version string) string {
	base := fmt.Sprintf("%s_%s.nsi", appName, version)
	return strings.ReplaceAll(base, " ", "_")
}

// Write stores the script under dir with CRLF line endings. encoding is
// the project's declared script encoding, "ANSI" (Windows-1252) or
// "UTF-8"; unknown values fall back to ANSI. It returns the full path of
// the written file.
func Write(dir, filename, script, encoding string) (string, error) {
	text := toCRLF(script)

	var data []byte
	if strings.EqualFold(encoding, "UTF-8") {
		data = append(append([]byte{}, utf8BOM...), text...)
	} else {
		encoded, err := charmap.Windows1252.NewEncoder().String(text)
		if err != nil {
			return "", fmt.Errorf("encoding script as ANSI: %w", err)
		}
		data = []byte(encoded)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing script: %w", err)
	}
	return path, nil
}

// toCRLF normalizes line endings without doubling existing CRLF pairs.
func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
