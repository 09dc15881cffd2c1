package makensis

import (
	"runtime"
	"strings"
	"testing"
)

func TestVerbosityFlag(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{3, "3"},
		{0, "0"},
		{-5, "0"},
		{9, "4"},
	}
	for _, tt := range tests {
		got := verbosityFlag(tt.level)
		if !strings.HasSuffix(got, tt.want) {
			t.Errorf("verbosityFlag(%d) = %q, want suffix %q", tt.level, got, tt.want)
		}
		if runtime.GOOS == "windows" && !strings.HasPrefix(got, "/V") {
			t.Errorf("verbosityFlag(%d) = %q, want /V prefix on windows", tt.level, got)
		}
		if runtime.GOOS != "windows" && !strings.HasPrefix(got, "-V") {
			t.Errorf("verbosityFlag(%d) = %q, want -V prefix", tt.level, got)
		}
	}
}

func TestNewBuilderDefaults(t *testing.T) {
	b := NewBuilder("out/app.nsi", "")
	if b.ScriptFile != "out/app.nsi" {
		t.Errorf("ScriptFile = %q", b.ScriptFile)
	}
	if b.Verbosity != 3 {
		t.Errorf("Verbosity = %d, want 3", b.Verbosity)
	}
}

func TestCompilerPathMissingOverride(t *testing.T) {
	// A configured path that does not exist falls through to the standard
	// lookup instead of being returned blindly.
	b := NewBuilder("app.nsi", "/does/not/exist/makensis")
	if got := b.compilerPath(); got == "/does/not/exist/makensis" {
		t.Errorf("compilerPath() returned nonexistent override %q", got)
	}
}
