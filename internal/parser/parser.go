// Package parser reads project description files into the model representation.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/digidigital/nsigen/internal/model"
)

// Load reads a project file and returns the parsed Project. The format is
// chosen by extension: .json, or .yaml/.yml. Fields absent from the file
// keep the designer defaults from model.New.
func Load(filename string) (*model.Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported project file extension %q (want .json, .yaml or .yml)", filepath.Ext(filename))
	}
}

// ParseJSON parses a JSON project description from a byte slice.
func ParseJSON(data []byte) (*model.Project, error) {
	p := model.New()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return p, nil
}

// ParseYAML parses a YAML project description from a byte slice.
func ParseYAML(data []byte) (*model.Project, error) {
	p := model.New()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return p, nil
}

// ResolvePaths resolves the file references of a project against the
// directory the project file was loaded from. Relative paths stay usable
// no matter where the tool is invoked. The payload executable must exist;
// the optional assets are cleared with a note in the returned warnings
// when they point at nothing.
func ResolvePaths(p *model.Project, baseDir string) (model.ResolvedPaths, []string, error) {
	var warnings []string

	exePath := resolve(baseDir, p.ExePath)
	if exePath != "" {
		if _, err := os.Stat(exePath); err != nil {
			return model.ResolvedPaths{}, nil, fmt.Errorf("payload executable %s: %w", p.ExePath, err)
		}
	}

	paths := model.ResolvedPaths{
		ExePath: exePath,
	}
	if exePath != "" {
		paths.ExeDir = filepath.Dir(exePath)
	}

	optional := []struct {
		label string
		value string
		out   *string
	}{
		{"install icon", p.InstallIconPath, &paths.InstallIcon},
		{"uninstall icon", p.UninstallIconPath, &paths.UninstallIcon},
		{"welcome bitmap", p.WelcomeBitmapPath, &paths.WelcomeBitmap},
		{"license file", p.LicenseFilePath, &paths.LicenseFile},
	}
	for _, opt := range optional {
		if opt.value == "" {
			continue
		}
		full := resolve(baseDir, opt.value)
		if _, err := os.Stat(full); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s %s not found, skipped", opt.label, opt.value))
			continue
		}
		*opt.out = full
	}

	return paths, warnings, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
