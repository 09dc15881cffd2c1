package sanitize

import (
	"errors"
	"testing"
)

func TestStringFileMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean name", "setup.exe", "setup.exe"},
		{"path separators", `a/b\c`, "a_b_c"},
		{"quoting characters", `my"app`, "my_app"},
		{"wildcards", "app*?", "app"},
		{"colon", "C:app", "C_app"},
		{"control characters", "ab\tcd", "ab_cd"},
		{"run collapses", "a<>|b", "a_b"},
		{"trimmed edges", "*app*", "app"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.input, File)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("String(%q, File) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringRegistryMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"forward slash kept", "http://example.com", "http://example.com"},
		{"backslash replaced", `a\b`, "a_b"},
		{"quotes kept", `say "hi"`, `say "hi"`},
		{"control characters", "a\nb", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.input, Registry)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("String(%q, Registry) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringAutoMode(t *testing.T) {
	// Executable suffixes switch to File rules; a colon proves which rule set ran.
	got, err := String("my:app.exe", Auto)
	if err != nil {
		t.Fatal(err)
	}
	if got != "my_app.exe" {
		t.Errorf("Auto mode on .exe: got %q, want %q", got, "my_app.exe")
	}

	// Without an executable suffix the colon survives (registry rules).
	got, err = String("my:value", Auto)
	if err != nil {
		t.Fatal(err)
	}
	if got != "my:value" {
		t.Errorf("Auto mode on plain text: got %q, want %q", got, "my:value")
	}
}

func TestStringIdempotent(t *testing.T) {
	inputs := []string{`a/b\c:d`, "plain", "x*y?z", "  spaced  "}
	for _, mode := range []Mode{File, Registry} {
		for _, in := range inputs {
			once, err := String(in, mode)
			if err != nil {
				t.Fatal(err)
			}
			twice, err := String(once, mode)
			if err != nil {
				t.Fatal(err)
			}
			if once != twice {
				t.Errorf("mode %d: sanitizing twice changed %q: %q then %q", mode, in, once, twice)
			}
		}
	}
}

func TestStringInvalidText(t *testing.T) {
	_, err := String("bad\xff\xfetext", File)
	var invalid *InvalidFieldError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}
}
