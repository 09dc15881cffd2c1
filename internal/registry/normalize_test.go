package registry

import (
	"strings"
	"testing"

	"github.com/digidigital/nsigen/internal/ledger"
	"github.com/digidigital/nsigen/internal/model"
)

func row(root model.Hive, key, value, data string, kind model.ValueKind) model.RegistryEntry {
	return model.RegistryEntry{Root: root, Key: key, Value: value, Data: data, Kind: kind}
}

func TestNormalizeHiveRewrite(t *testing.T) {
	var lg ledger.Ledger
	rows := []model.RegistryEntry{
		row("HKRANDOM", `Software\MyApp`, "v", "d", model.KindString),
	}
	clean := Normalize(rows, model.HiveLocalMachine, &lg)

	if len(clean) != 1 {
		t.Fatalf("got %d rows, want 1", len(clean))
	}
	if clean[0].Root != model.HiveLocalMachine {
		t.Errorf("root = %q, want HKLM", clean[0].Root)
	}
	entries := lg.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d ledger entries, want exactly 1", len(entries))
	}
	if !strings.Contains(entries[0], `"HKRANDOM"`) || !strings.Contains(entries[0], `"HKLM"`) {
		t.Errorf("ledger entry %q should name both hives", entries[0])
	}
}

func TestNormalizeMatchingHiveSilent(t *testing.T) {
	var lg ledger.Ledger
	rows := []model.RegistryEntry{
		row(model.HiveCurrentUser, "Software\\App", "v", "d", model.KindString),
	}
	clean := Normalize(rows, model.HiveCurrentUser, &lg)
	if len(clean) != 1 {
		t.Fatalf("got %d rows, want 1", len(clean))
	}
	if !lg.Empty() {
		t.Errorf("matching hive should not generate ledger entries, got %v", lg.Entries())
	}
}

func TestNormalizeDropsEmptyFields(t *testing.T) {
	tests := []struct {
		name string
		row  model.RegistryEntry
	}{
		{"empty key", row(model.HiveLocalMachine, "", "v", "d", model.KindString)},
		{"empty data", row(model.HiveLocalMachine, "Software\\App", "v", "", model.KindString)},
		{"key of only backslashes", row(model.HiveLocalMachine, `\\\`, "v", "d", model.KindString)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lg ledger.Ledger
			clean := Normalize([]model.RegistryEntry{tt.row}, model.HiveLocalMachine, &lg)
			if len(clean) != 0 {
				t.Errorf("row should be dropped, kept %v", clean)
			}
			if len(lg.Entries()) != 1 {
				t.Errorf("drop should leave exactly one ledger entry, got %v", lg.Entries())
			}
		})
	}
}

func TestNormalizeDwordLiterals(t *testing.T) {
	tests := []struct {
		data string
		keep bool
	}{
		{"16", true},
		{"0", true},
		{"-1", true},
		{"0x10", true},
		{"0XFF", true},
		{"not-a-number", false},
		{"0x", false},
		{"0xZZ", false},
		{"1.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			var lg ledger.Ledger
			rows := []model.RegistryEntry{
				row(model.HiveLocalMachine, "Software\\App", "v", tt.data, model.KindDword),
			}
			clean := Normalize(rows, model.HiveLocalMachine, &lg)
			kept := len(clean) == 1
			if kept != tt.keep {
				t.Errorf("data %q: kept=%v, want %v (ledger: %v)", tt.data, kept, tt.keep, lg.Entries())
			}
		})
	}
}

func TestNormalizeStringDataNotParsed(t *testing.T) {
	var lg ledger.Ledger
	rows := []model.RegistryEntry{
		row(model.HiveLocalMachine, "Software\\App", "v", "not-a-number", model.KindString),
	}
	clean := Normalize(rows, model.HiveLocalMachine, &lg)
	if len(clean) != 1 {
		t.Fatal("string rows keep arbitrary data")
	}
}

func TestNormalizeKeepsOrder(t *testing.T) {
	var lg ledger.Ledger
	rows := []model.RegistryEntry{
		row(model.HiveLocalMachine, "A", "v", "1", model.KindString),
		row(model.HiveLocalMachine, "", "v", "2", model.KindString), // dropped
		row(model.HiveLocalMachine, "B", "v", "3", model.KindString),
	}
	clean := Normalize(rows, model.HiveLocalMachine, &lg)
	if len(clean) != 2 || clean[0].Key != "A" || clean[1].Key != "B" {
		t.Errorf("surviving rows out of order: %v", clean)
	}
	// Row numbers in ledger messages are positions in the input, not the output.
	if entries := lg.Entries(); len(entries) != 1 || !strings.Contains(entries[0], "row 2") {
		t.Errorf("expected one entry about row 2, got %v", lg.Entries())
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single backslash doubled", `Software\MyApp`, `Software\\MyApp`},
		{"already doubled unchanged", `Software\\MyApp`, `Software\\MyApp`},
		{"leading trailing trimmed", `\Software\MyApp\`, `Software\\MyApp`},
		{"deep path", `a\b\c`, `a\\b\\c`},
		{"triple run", `a\\\b`, `a\\\\b`},
		{"no backslashes", "Software", "Software"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeKey(tt.input); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{`Software\MyApp`, `a\\b`, `\x\`, `a\\\b\c`}
	for _, in := range inputs {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Errorf("NormalizeKey not idempotent on %q: %q then %q", in, once, twice)
		}
	}
}
