// Copyright (c) 2026, the nsigen authors
// MIT License

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/digidigital/nsigen/internal/assembler"
	"github.com/digidigital/nsigen/internal/assets"
	"github.com/digidigital/nsigen/internal/cli"
	"github.com/digidigital/nsigen/internal/makensis"
	"github.com/digidigital/nsigen/internal/model"
	"github.com/digidigital/nsigen/internal/parser"
	"github.com/digidigital/nsigen/internal/scriptfile"
)

// Version is set via ldflags at build time
var Version = "1.0.0-dev"

type cliArgs struct {
	outDir   string
	build    bool
	dryRun   bool
	template string
	status   bool
	files    []string
}

func main() {
	args := parseArgs()

	if args.status {
		printStatus()
		os.Exit(0)
	}

	if len(args.files) == 0 {
		printUsage()
		os.Exit(10)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, filename := range args.files {
		if err := processFile(ctx, filename, args); err != nil {
			fmt.Fprintf(os.Stderr, "%s processing %s: %v\n", cli.Error("Error"), filename, err)
			os.Exit(1)
		}
	}
}

func processFile(ctx context.Context, filename string, args *cliArgs) error {
	fmt.Printf("Processing %s...\n", cli.Filename(filename))

	project, err := parser.Load(filename)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	fmt.Printf("  Parsed: %d registry rows, %d environment rows, %d languages\n",
		len(project.RegistryRows), len(project.EnvRows), len(project.Languages))

	// A version the registry cannot compare still generates, but Windows
	// Update/uninstall tooling sorts it as text.
	if _, err := goversion.NewVersion(project.Version); err != nil && project.Version != "" {
		fmt.Printf("  %s\n", cli.Warning(fmt.Sprintf("version %q is not a comparable version number", project.Version)))
	}

	baseDir := filepath.Dir(filename)
	paths, warnings, err := parser.ResolvePaths(project, baseDir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Printf("  %s\n", cli.Warning(w))
	}

	outDir := args.outDir
	if outDir == "" {
		outDir = baseDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if project.EstimatedKB == 0 && paths.ExeDir != "" {
		kb, err := assets.EstimatePayloadKB(paths.ExeDir)
		if err != nil {
			fmt.Printf("  %s\n", cli.Warning(fmt.Sprintf("could not measure payload size: %v", err)))
		} else {
			project.EstimatedKB = int(kb)
		}
	}

	if !args.dryRun {
		if err := prepareAssets(&paths, outDir); err != nil {
			return err
		}
	}

	opts := assembler.Options{}
	if args.template != "" {
		data, err := os.ReadFile(args.template)
		if err != nil {
			return fmt.Errorf("reading template: %w", err)
		}
		opts.TemplateText = string(data)
	}

	result, err := assembler.SynthesizeWithOptions(project, paths, opts)
	if err != nil {
		return err
	}

	for _, entry := range result.Ledger.Entries() {
		fmt.Printf("  %s\n", cli.Adjustment("adjusted: "+entry))
	}

	if args.dryRun {
		fmt.Println("  [dry-run] Validation complete")
		return nil
	}

	scriptName := scriptfile.Name(project.AppName, project.Version)
	scriptPath, err := scriptfile.Write(outDir, scriptName, result.Script, project.Encoding)
	if err != nil {
		return err
	}
	fmt.Printf("  Written: %s\n", cli.Filename(scriptPath))

	if args.build {
		builder := makensis.NewBuilder(scriptPath, project.NSISPath)
		if err := builder.Build(ctx); err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", cli.Success("Built:"), filepath.Join(outDir, result.OutFile))
	}

	return nil
}

// prepareAssets converts the optional artwork into outDir and rewrites the
// resolved paths to the converted filenames, so the script can reference
// them relative to its own location.
func prepareAssets(paths *model.ResolvedPaths, outDir string) error {
	if paths.InstallIcon != "" {
		written, err := assets.PrepareIcon(paths.InstallIcon, outDir, "install")
		if err != nil {
			return fmt.Errorf("install icon: %w", err)
		}
		paths.InstallIcon = filepath.Base(written)
	}
	if paths.UninstallIcon != "" {
		written, err := assets.PrepareIcon(paths.UninstallIcon, outDir, "uninstall")
		if err != nil {
			return fmt.Errorf("uninstall icon: %w", err)
		}
		paths.UninstallIcon = filepath.Base(written)
	}
	if paths.WelcomeBitmap != "" {
		written, err := assets.PrepareWelcomeBitmap(paths.WelcomeBitmap, outDir)
		if err != nil {
			return fmt.Errorf("welcome bitmap: %w", err)
		}
		paths.WelcomeBitmap = filepath.Base(written)
	}
	if paths.LicenseFile != "" {
		written, err := assets.PrepareLicense(paths.LicenseFile, outDir)
		if err != nil {
			return fmt.Errorf("license file: %w", err)
		}
		paths.LicenseFile = filepath.Base(written)
	}
	return nil
}

func parseArgs() *cliArgs {
	// Convert /FLAG syntax to --flag for flag package compatibility
	newArgs := make([]string, 0, len(os.Args))
	newArgs = append(newArgs, os.Args[0])

	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "/") && !strings.Contains(arg, "\\") && !strings.Contains(arg, ":") {
			// /FLAG -> --flag (but not paths like /c/foo or /flag:value)
			newArgs = append(newArgs, "--"+strings.ToLower(arg[1:]))
		} else if strings.HasPrefix(arg, "/") && strings.Contains(arg, ":") && !strings.HasPrefix(arg, "/c/") {
			// /FLAG:value -> --flag=value
			parts := strings.SplitN(arg, ":", 2)
			key := strings.ToLower(parts[0][1:])
			val := parts[1]
			newArgs = append(newArgs, "--"+key+"="+val)
		} else {
			newArgs = append(newArgs, arg)
		}
	}

	os.Args = newArgs

	args := &cliArgs{}

	flag.StringVar(&args.outDir, "out", "", "output directory for script and assets")
	flag.BoolVar(&args.build, "build", false, "run makensis on the generated script")
	flag.BoolVar(&args.dryRun, "dry-run", false, "validate and report adjustments only, no output")
	flag.StringVar(&args.template, "template", "", "custom script skeleton to use")
	flag.BoolVar(&args.status, "status", false, "show configuration status")

	var noColor bool
	flag.BoolVar(&noColor, "no-color", false, "disable colored output")

	// Help flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "show help")
	flag.BoolVar(&showHelp, "h", false, "show help")
	flag.BoolVar(&showHelp, "?", false, "show help")

	flag.Parse()

	if noColor {
		cli.DisableColors()
	}

	if showHelp {
		printUsage()
		os.Exit(0)
	}

	args.files = flag.Args()
	return args
}

func printUsage() {
	fmt.Printf("NSIGEN - Version %s\n", Version)
	fmt.Printf("NSIS installer script generator [%s/%s]\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Usage: nsigen [OPTIONS] FILE [FILE...]")
	fmt.Println()
	fmt.Println("Project files are .json, .yaml or .yml descriptions of the installer.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  /OUT:DIR            Output directory (default: project file directory)")
	fmt.Println("  /BUILD              Run makensis on the generated script")
	fmt.Println("  /DRY-RUN            Validate and report adjustments only, no output")
	fmt.Println("  /TEMPLATE:FILE      Custom script skeleton to use")
	fmt.Println("  /STATUS             Show configuration status")
	fmt.Println("  /NO-COLOR           Disable colored output")
	fmt.Println("  /?, /HELP           Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  nsigen project.json                      Generate .nsi script")
	fmt.Println("  nsigen /BUILD project.json               Generate and compile installer")
	fmt.Println("  nsigen /OUT:build /BUILD project.json    Generate into build\\ and compile")
	fmt.Println("  nsigen /DRY-RUN project.json             Validate only")
}

func printStatus() {
	fmt.Printf("NSIGEN - Version %s\n", Version)
	fmt.Printf("Generator core: %s\n", assembler.GeneratorVersion)
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()

	fmt.Println("NSIS Compiler:")
	if makensis.IsAvailable() {
		fmt.Printf("  Location: %s\n", makensis.Path())
		fmt.Printf("  Version:  %s\n", makensis.Version())
	} else {
		fmt.Println("  Location: (not found)")
		fmt.Println("  Install NSIS or set nsis_path in the project file")
	}
}
