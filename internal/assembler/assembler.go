// Package assembler synthesizes the two-phase NSIS installer script from a
// validated project. Synthesis is a pure function: it performs no I/O,
// holds no state across calls, and either returns a complete script or
// fails with a structured error before any text is produced.
package assembler

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/digidigital/nsigen/internal/ledger"
	"github.com/digidigital/nsigen/internal/model"
	"github.com/digidigital/nsigen/internal/registry"
	"github.com/digidigital/nsigen/internal/sanitize"
	"github.com/digidigital/nsigen/internal/template"
)

// GeneratorVersion is emitted into the script header.
const GeneratorVersion = "1.0.0"

// knownLanguages are the NSIS MUI language names the designer offers.
var knownLanguages = map[string]bool{
	"English": true, "German": true, "French": true, "Spanish": true,
	"Italian": true, "Portuguese": true, "Dutch": true, "Danish": true,
	"Swedish": true, "Norwegian": true, "Finnish": true, "Polish": true,
	"Czech": true, "Hungarian": true, "Romanian": true, "Ukrainian": true,
}

// knownCompressors are the SetCompressor schemes NSIS accepts.
var knownCompressors = map[string]bool{
	"zlib": true, "bzip2": true, "lzma": true,
}

// Options tweak synthesis without touching project semantics.
type Options struct {
	// TemplateText overrides the embedded script skeleton when non-empty.
	TemplateText string
	// Machine overrides the host architecture used for the ARM/x86 tag in
	// the output filename. Defaults to runtime.GOARCH.
	Machine string
}

// Result is the outcome of one synthesis run.
type Result struct {
	Script  string
	OutFile string // generated installer binary name, e.g. My_App-2.0-x86_64.exe
	Ledger  *ledger.Ledger
}

// Context holds state during script assembly.
type Context struct {
	project *model.Project
	paths   model.ResolvedPaths
	rows    []model.RegistryEntry
	lg      *ledger.Ledger

	// Sanitized metadata
	appName   string
	version   string
	company   string
	caption   string
	aboutURL  string
	branding  string
	helpURL   string
	updateURL string
	contact   string
	comments  string

	exeBase    string
	exeDir     string
	outFile    string
	compressor string
	languages  []string

	hasEnv    bool
	hasAppend bool
}

// Synthesize validates, normalizes, and assembles the installer script.
// Fatal conditions (ConfigurationConflict, MissingPayload, InvalidField)
// abort before any text is produced; everything else is auto-corrected
// with a ledger entry.
func Synthesize(p *model.Project, paths model.ResolvedPaths) (*Result, error) {
	return SynthesizeWithOptions(p, paths, Options{})
}

// SynthesizeWithOptions is Synthesize with explicit options.
func SynthesizeWithOptions(p *model.Project, paths model.ResolvedPaths, opts Options) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if paths.ExePath == "" {
		return nil, &model.MissingPayloadError{}
	}

	ctx := &Context{
		project: p,
		paths:   paths,
		lg:      &ledger.Ledger{},
	}

	if err := ctx.resolveMetadata(); err != nil {
		return nil, err
	}
	ctx.rows = registry.Normalize(p.RegistryRows, p.DefaultHive(), ctx.lg)
	ctx.resolveLanguages()
	ctx.resolveCompressor()
	ctx.resolveOutFile(opts.Machine)

	ctx.hasEnv = len(p.EnvRows) > 0
	for _, env := range p.EnvRows {
		if env.Mode != model.EnvSet {
			ctx.hasAppend = true
		}
	}

	renderer := &template.Renderer{CustomSkeleton: opts.TemplateText}
	script, err := renderer.Render(ctx.templateContext())
	if err != nil {
		return nil, err
	}

	return &Result{
		Script:  script,
		OutFile: ctx.outFile,
		Ledger:  ctx.lg,
	}, nil
}

// resolveMetadata sanitizes the free-text fields for the textual contexts
// they land in and applies the designer's defaults for empty ones.
func (c *Context) resolveMetadata() error {
	p := c.project

	var err error
	if c.appName, err = sanitize.String(fallback(p.AppName, "MyApp"), sanitize.Registry); err != nil {
		return err
	}
	if c.appName == "" {
		c.appName = "MyApp"
	}
	if c.version, err = sanitize.String(fallback(p.Version, "0.1.0"), sanitize.File); err != nil {
		return err
	}
	if c.company, err = sanitize.String(p.CompanyName, sanitize.Registry); err != nil {
		return err
	}
	if c.caption, err = sanitize.String(fallback(p.Caption, "Installation Wizard"), sanitize.Registry); err != nil {
		return err
	}
	if c.aboutURL, err = sanitize.String(p.AboutURL, sanitize.Registry); err != nil {
		return err
	}
	if c.branding, err = sanitize.String(p.BrandingText, sanitize.Registry); err != nil {
		return err
	}
	if c.helpURL, err = sanitize.String(p.HelpURL, sanitize.Registry); err != nil {
		return err
	}
	if c.updateURL, err = sanitize.String(p.UpdateURL, sanitize.Registry); err != nil {
		return err
	}
	if c.contact, err = sanitize.String(p.Contact, sanitize.Registry); err != nil {
		return err
	}
	if c.comments, err = sanitize.String(p.Comments, sanitize.Registry); err != nil {
		return err
	}

	c.exeDir = strings.ReplaceAll(c.paths.ExeDir, "/", `\`)
	base := basename(c.paths.ExePath)
	if c.exeBase, err = sanitize.String(base, sanitize.Auto); err != nil {
		return err
	}
	return nil
}

// resolveLanguages validates the requested installer UI languages. English
// is always present; unknown names are dropped with a ledger entry. The
// first listed language is the installer default.
func (c *Context) resolveLanguages() {
	var langs []string
	for _, lang := range c.project.Languages {
		if !knownLanguages[lang] {
			c.lg.Addf("language %q is not a recognized installer language, dropped", lang)
			continue
		}
		langs = append(langs, lang)
	}
	hasEnglish := false
	for _, lang := range langs {
		if lang == "English" {
			hasEnglish = true
			break
		}
	}
	if !hasEnglish {
		langs = append([]string{"English"}, langs...)
	}
	c.languages = langs
}

// resolveCompressor falls back to lzma, recording a ledger entry when an
// unrecognized scheme was requested.
func (c *Context) resolveCompressor() {
	comp := c.project.Compression
	if comp == "" {
		c.compressor = "lzma"
		return
	}
	if !knownCompressors[comp] {
		c.lg.Addf("compression scheme %q is not supported, using lzma", comp)
		comp = "lzma"
	}
	c.compressor = comp
}

// resolveOutFile derives the installer binary name from the sanitized app
// name, version, and the architecture tag implied by the preset bit-width.
func (c *Context) resolveOutFile(machine string) {
	if machine == "" {
		machine = runtime.GOARCH
	}
	name, _ := sanitize.String(c.appName, sanitize.File)
	name = strings.ReplaceAll(name, " ", "_")
	c.outFile = fmt.Sprintf("%s-%s-%s.exe", name, c.version, archTag(c.project.RegViewBits(), machine))
}

// archTag maps the preset bit-width and host machine to the filename tag.
func archTag(bits int, machine string) string {
	if strings.Contains(strings.ToLower(machine), "arm") {
		if bits == 32 {
			return "ARM32"
		}
		return "ARM64"
	}
	if bits == 32 {
		return "x86"
	}
	return "x86_64"
}

// templateContext builds the Handlebars context for the script skeleton.
func (c *Context) templateContext() map[string]interface{} {
	p := c.project
	uninstallRoot := string(p.DefaultHive())

	return map[string]interface{}{
		"GENERATOR_VERSION":   GeneratorVersion,
		"APPNAME":             c.appName,
		"COMPANYNAME":         c.company,
		"VERSION":             c.version,
		"EXEFILE":             c.exeBase,
		"ABOUTURL":            c.aboutURL,
		"OUTFILE":             c.outFile,
		"CAPTION":             c.caption,
		"COMPRESSOR":          c.compressor,
		"EXEC_LEVEL":          string(p.ExecLevel),
		"ICON_DEFINES":        c.buildIconDefines(),
		"PAGES":               c.buildPages(),
		"LANGUAGES":           c.buildLanguages(),
		"BRANDING":            c.buildBranding(),
		"INSTALLDIR":          p.InstallDirBase(),
		"INSTALLDIR_REG_ROOT": uninstallRoot,
		"HELPERS":             c.buildHelpers(),
		"INSTALL_SECTION":     c.buildInstallSection(),
		"UNINSTALL_SECTION":   c.buildUninstallSection(),
		"LEDGER":              c.lg.CommentBlock(),
	}
}

// fallback returns s, or def when s is empty.
func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// basename returns the last path element, accepting both separator styles.
func basename(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
