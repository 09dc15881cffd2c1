// Package makensis provides NSIS CLI integration for compiling generated
// scripts into installer executables.
package makensis

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// killGrace is how long a compile gets to exit after its context is
// cancelled before the process is killed outright.
const killGrace = 5 * time.Second

// Builder handles makensis invocation for installer generation.
type Builder struct {
	ScriptFile  string
	CompilerArg string // explicit makensis path from the project, if any
	Verbosity   int    // makensis /V level, 0..4
}

// NewBuilder creates a makensis builder for a generated script.
// compilerPath overrides the standard lookup when non-empty.
func NewBuilder(scriptFile, compilerPath string) *Builder {
	return &Builder{
		ScriptFile:  scriptFile,
		CompilerArg: compilerPath,
		Verbosity:   3,
	}
}

// Build invokes makensis on the script. Compiler output streams to the
// process stdout/stderr. Cancelling ctx interrupts the compile; the
// process is first signalled to terminate and killed after a grace
// period if it does not exit.
func (b *Builder) Build(ctx context.Context) error {
	compiler := b.compilerPath()
	if compiler == "" {
		return fmt.Errorf("makensis not found (install NSIS or set nsis_path in the project)")
	}

	absScript, _ := filepath.Abs(b.ScriptFile)
	workDir := filepath.Dir(absScript)

	args := []string{verbosityFlag(b.Verbosity), filepath.Base(absScript)}

	fmt.Printf("  Running: %s %s\n", compiler, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, compiler, args...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = killGrace

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("makensis interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("makensis: %w", err)
	}
	return nil
}

// verbosityFlag renders the makensis verbosity switch in the platform's
// native flag style.
func verbosityFlag(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 4 {
		level = 4
	}
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("/V%d", level)
	}
	return fmt.Sprintf("-V%d", level)
}

// compilerPath resolves the makensis binary: the explicit project path
// first, then the standard NSIS install locations, then PATH.
func (b *Builder) compilerPath() string {
	if b.CompilerArg != "" {
		if _, err := os.Stat(b.CompilerArg); err == nil {
			return b.CompilerArg
		}
		// A configured directory also works; look for the binary inside.
		candidate := filepath.Join(b.CompilerArg, exeName())
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return Path()
}

// Path returns the makensis binary to invoke, preferring the standard
// NSIS install locations over PATH.
func Path() string {
	for _, dir := range standardDirs() {
		candidate := filepath.Join(dir, exeName())
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if p, err := exec.LookPath(exeName()); err == nil {
		return p
	}
	return ""
}

// IsAvailable checks if a makensis binary can be found.
func IsAvailable() bool {
	return Path() != ""
}

// Version returns the makensis version string, or a placeholder if the
// compiler is unavailable.
func Version() string {
	compiler := Path()
	if compiler == "" {
		return "(unavailable)"
	}
	cmd := exec.Command(compiler, versionArg())
	output, err := cmd.Output()
	if err != nil {
		return "(unavailable)"
	}
	return strings.TrimSpace(string(output))
}

func standardDirs() []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	var dirs []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if base := os.Getenv(env); base != "" {
			dirs = append(dirs, filepath.Join(base, "NSIS"))
		}
	}
	return dirs
}

func exeName() string {
	if runtime.GOOS == "windows" {
		return "makensis.exe"
	}
	return "makensis"
}

func versionArg() string {
	if runtime.GOOS == "windows" {
		return "/VERSION"
	}
	return "-version"
}
