package model

import (
	"errors"
	"testing"
)

func TestValidateCouplings(t *testing.T) {
	tests := []struct {
		name    string
		preset  Preset
		scope   Scope
		level   ExecLevel
		wantErr bool
	}{
		{"64-bit system admin", PresetSystem64, ScopeSystemWide, ExecAdmin, false},
		{"32-bit system admin", PresetSystem32, ScopeSystemWide, ExecAdmin, false},
		{"per-user user scope", PresetPerUser, ScopePerUser, ExecUser, false},
		{"64-bit with user level", PresetSystem64, ScopeSystemWide, ExecUser, true},
		{"64-bit with per-user scope", PresetSystem64, ScopePerUser, ExecAdmin, true},
		{"32-bit with per-user scope", PresetSystem32, ScopePerUser, ExecUser, true},
		{"per-user with admin level", PresetPerUser, ScopePerUser, ExecAdmin, true},
		{"per-user with system scope", PresetPerUser, ScopeSystemWide, ExecUser, true},
		{"unknown preset", Preset("portable"), ScopeSystemWide, ExecAdmin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			p.InstallDirPreset = tt.preset
			p.Scope = tt.scope
			p.ExecLevel = tt.level

			err := p.Validate()
			if tt.wantErr {
				var conflict *ConfigurationConflictError
				if !errors.As(err, &conflict) {
					t.Fatalf("expected ConfigurationConflictError, got %v", err)
				}
				if conflict.Preset != tt.preset {
					t.Errorf("conflict preset = %q, want %q", conflict.Preset, tt.preset)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("default project should validate, got %v", err)
	}
}

func TestDefaultHive(t *testing.T) {
	tests := []struct {
		name   string
		preset Preset
		scope  Scope
		want   Hive
	}{
		{"system-wide 64-bit", PresetSystem64, ScopeSystemWide, HiveLocalMachine},
		{"system-wide 32-bit", PresetSystem32, ScopeSystemWide, HiveLocalMachine},
		{"per-user preset", PresetPerUser, ScopePerUser, HiveCurrentUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			p.InstallDirPreset = tt.preset
			p.Scope = tt.scope
			if got := p.DefaultHive(); got != tt.want {
				t.Errorf("DefaultHive() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstallDirBase(t *testing.T) {
	tests := []struct {
		preset Preset
		want   string
	}{
		{PresetSystem64, `$PROGRAMFILES64\${APPNAME}`},
		{PresetSystem32, `$PROGRAMFILES32\${APPNAME}`},
		{PresetPerUser, `$LOCALAPPDATA\${APPNAME}`},
	}
	for _, tt := range tests {
		p := New()
		p.InstallDirPreset = tt.preset
		if got := p.InstallDirBase(); got != tt.want {
			t.Errorf("InstallDirBase(%q) = %q, want %q", tt.preset, got, tt.want)
		}
	}
}

func TestRegViewBits(t *testing.T) {
	p := New()
	if got := p.RegViewBits(); got != 64 {
		t.Errorf("64-bit preset: RegViewBits() = %d, want 64", got)
	}
	p.InstallDirPreset = PresetSystem32
	if got := p.RegViewBits(); got != 32 {
		t.Errorf("32-bit preset: RegViewBits() = %d, want 32", got)
	}
	p.InstallDirPreset = PresetPerUser
	if got := p.RegViewBits(); got != 64 {
		t.Errorf("per-user preset: RegViewBits() = %d, want 64", got)
	}
}

func TestShellVarContext(t *testing.T) {
	p := New()
	if got := p.ShellVarContext(); got != "all" {
		t.Errorf("system-wide: ShellVarContext() = %q, want \"all\"", got)
	}
	p.InstallDirPreset = PresetPerUser
	p.Scope = ScopePerUser
	p.ExecLevel = ExecUser
	if got := p.ShellVarContext(); got != "current" {
		t.Errorf("per-user: ShellVarContext() = %q, want \"current\"", got)
	}
}
