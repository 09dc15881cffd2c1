// Package model defines the project description an installer script is
// synthesized from, together with the invariants coupling install-location
// preset, execution level, and scope.
package model

import "fmt"

// Preset selects the install-location policy and its implied bit-width.
type Preset string

const (
	PresetSystem64 Preset = "64-bit"  // $PROGRAMFILES64, admin, system-wide
	PresetSystem32 Preset = "32-bit"  // $PROGRAMFILES32, admin, system-wide
	PresetPerUser  Preset = "Per-user" // $LOCALAPPDATA, user, per-user
)

// Scope selects whether the installer targets all users or only the current one.
type Scope string

const (
	ScopeSystemWide Scope = "System-wide"
	ScopePerUser    Scope = "Per-user"
)

// ExecLevel is the execution level the generated script requests.
type ExecLevel string

const (
	ExecAdmin ExecLevel = "admin"
	ExecUser  ExecLevel = "user"
)

// Hive is the registry root an entry is written under.
type Hive string

const (
	HiveLocalMachine Hive = "HKLM"
	HiveCurrentUser  Hive = "HKCU"
)

// ValueKind is the registry value type of a RegistryEntry.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindDword  ValueKind = "dword"
)

// EnvMode selects how an EnvironmentChange is applied.
type EnvMode string

const (
	// EnvSet overwrites the variable with the exact value; uninstall deletes it.
	EnvSet EnvMode = "set"
	// EnvAppend ensures the value is present once in the variable's
	// semicolon-separated list; uninstall removes only that fragment.
	EnvAppend EnvMode = "append"
)

// RegistryEntry is a single registry row written by the Install section and
// removed by the Uninstall section.
type RegistryEntry struct {
	Root  Hive      `json:"root" yaml:"root"`
	Key   string    `json:"key" yaml:"key"`
	Value string    `json:"value" yaml:"value"`
	Data  string    `json:"data" yaml:"data"`
	Kind  ValueKind `json:"reg_type" yaml:"reg_type"`
}

// EnvironmentChange is a single environment variable change.
type EnvironmentChange struct {
	Name  string  `json:"name" yaml:"name"`
	Value string  `json:"value" yaml:"value"`
	Mode  EnvMode `json:"mode" yaml:"mode"`
}

// Project is the root configuration for one installer.
// Serialized field names match the original designer's project files.
type Project struct {
	AppName      string `json:"app_name" yaml:"app_name"`
	CompanyName  string `json:"company_name" yaml:"company_name"`
	Version      string `json:"version" yaml:"version"`
	Caption      string `json:"caption" yaml:"caption"`
	AboutURL     string `json:"about_url" yaml:"about_url"`
	HelpURL      string `json:"help_url" yaml:"help_url"`
	BrandingText string `json:"branding_text" yaml:"branding_text"`
	ExePath      string `json:"exe_path" yaml:"exe_path"`
	EstimatedKB  int    `json:"estimated_size" yaml:"estimated_size"`
	UpdateURL    string `json:"update_url" yaml:"update_url"`
	Comments     string `json:"comments" yaml:"comments"`
	Contact      string `json:"contact" yaml:"contact"`

	InstallDirPreset Preset    `json:"install_dir_preset" yaml:"install_dir_preset"`
	ExecLevel        ExecLevel `json:"exec_level" yaml:"exec_level"`
	Scope            Scope     `json:"scope" yaml:"scope"`

	InstallIconPath   string `json:"install_icon_path" yaml:"install_icon_path"`
	UninstallIconPath string `json:"uninstall_icon_path" yaml:"uninstall_icon_path"`
	WelcomeBitmapPath string `json:"welcome_bitmap_path" yaml:"welcome_bitmap_path"`
	LicenseFilePath   string `json:"license_file_path" yaml:"license_file_path"`

	Languages []string `json:"languages" yaml:"languages"`

	RegistryRows []RegistryEntry     `json:"registry_rows" yaml:"registry_rows"`
	EnvRows      []EnvironmentChange `json:"env_rows" yaml:"env_rows"`

	Compression string `json:"compression" yaml:"compression"`
	Encoding    string `json:"encoding" yaml:"encoding"` // "ANSI" or "UTF-8"

	NSISPath string `json:"nsis_path" yaml:"nsis_path"` // optional makensis.exe override
}

// ResolvedPaths supplies the already-exported on-disk locations of the
// payload and converted assets. Produced by the asset-export collaborator,
// consumed by the assembler.
type ResolvedPaths struct {
	ExePath       string
	ExeDir        string
	InstallIcon   string
	UninstallIcon string
	WelcomeBitmap string
	LicenseFile   string
}

// New returns a project seeded with the designer's defaults.
func New() *Project {
	return &Project{
		AppName:          "MyApp",
		CompanyName:      "MyCompany",
		Version:          "0.1.0",
		Caption:          "Installation Wizard",
		BrandingText:     "A John Doe project",
		InstallDirPreset: PresetSystem64,
		ExecLevel:        ExecAdmin,
		Scope:            ScopeSystemWide,
		Languages:        []string{"English"},
		Compression:      "lzma",
		Encoding:         "ANSI",
	}
}

// IsPerUser reports whether the install targets only the current user.
func (p *Project) IsPerUser() bool {
	return p.Scope == ScopePerUser || p.InstallDirPreset == PresetPerUser
}

// DefaultHive returns the registry root implied by the installation scope.
// Registry rows claiming a different hive are corrected to this one.
func (p *Project) DefaultHive() Hive {
	if p.IsPerUser() {
		return HiveCurrentUser
	}
	return HiveLocalMachine
}

// InstallDirBase returns the InstallDir root path template for the preset.
func (p *Project) InstallDirBase() string {
	switch p.InstallDirPreset {
	case PresetSystem64:
		return `$PROGRAMFILES64\${APPNAME}`
	case PresetSystem32:
		return `$PROGRAMFILES32\${APPNAME}`
	default:
		return `$LOCALAPPDATA\${APPNAME}`
	}
}

// RegViewBits returns the registry view bit-width for the preset.
// Per-user installs follow modern OS bitness and default to 64.
func (p *Project) RegViewBits() int {
	if p.InstallDirPreset == PresetSystem32 {
		return 32
	}
	return 64
}

// ShellVarContext returns the SetShellVarContext argument for the scope.
func (p *Project) ShellVarContext() string {
	if p.IsPerUser() {
		return "current"
	}
	return "all"
}

// ConfigurationConflictError reports a preset/scope/execution-level coupling
// violation. These are never auto-corrected: they encode which directory
// tree and privilege level the author targets.
type ConfigurationConflictError struct {
	Preset    Preset
	Scope     Scope
	ExecLevel ExecLevel
}

func (e *ConfigurationConflictError) Error() string {
	return fmt.Sprintf("configuration conflict: install_dir_preset=%q, scope=%q, exec_level=%q must agree (per-user preset requires per-user scope and user level; system presets require system-wide scope and admin level)",
		e.Preset, e.Scope, e.ExecLevel)
}

// MissingPayloadError reports that no executable payload was resolved.
// The generator refuses to emit a script with nothing to install.
type MissingPayloadError struct{}

func (e *MissingPayloadError) Error() string {
	return "missing payload: no executable path resolved for this project"
}

// Validate enforces the three coupling rules between preset, scope, and
// execution level. It fails fast; synthesis never starts on a violation.
func (p *Project) Validate() error {
	conflict := &ConfigurationConflictError{
		Preset:    p.InstallDirPreset,
		Scope:     p.Scope,
		ExecLevel: p.ExecLevel,
	}
	if p.InstallDirPreset == PresetPerUser {
		if p.Scope != ScopePerUser || p.ExecLevel != ExecUser {
			return conflict
		}
		return nil
	}
	if p.InstallDirPreset == PresetSystem64 || p.InstallDirPreset == PresetSystem32 {
		if p.Scope != ScopeSystemWide || p.ExecLevel != ExecAdmin {
			return conflict
		}
		return nil
	}
	// Unknown preset cannot be reconciled with any scope/level pair.
	return conflict
}
