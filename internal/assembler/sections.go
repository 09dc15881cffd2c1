package assembler

import (
	"fmt"
	"strings"

	"github.com/digidigital/nsigen/internal/model"
)

const divider = ";============================================================================="

// envRegLocation returns the hive and key holding environment variables for
// the installation scope.
func (c *Context) envRegLocation() (root, key string) {
	if c.project.IsPerUser() {
		return "HKCU", `Environment`
	}
	return "HKLM", `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
}

func (c *Context) buildIconDefines() string {
	var lines []string
	if c.paths.InstallIcon != "" {
		lines = append(lines, fmt.Sprintf("!define MUI_ICON \"%s\"", c.paths.InstallIcon))
	}
	if c.paths.UninstallIcon != "" {
		lines = append(lines, fmt.Sprintf("!define MUI_UNICON \"%s\"", c.paths.UninstallIcon))
	}
	if c.paths.WelcomeBitmap != "" {
		lines = append(lines, fmt.Sprintf("!define MUI_WELCOMEFINISHPAGE_BITMAP \"%s\"", c.paths.WelcomeBitmap))
	}
	return strings.Join(lines, "\n")
}

func (c *Context) buildPages() string {
	var lines []string
	if c.paths.WelcomeBitmap != "" {
		lines = append(lines, "!insertmacro MUI_PAGE_WELCOME")
	}
	if c.paths.LicenseFile != "" {
		lines = append(lines, fmt.Sprintf("!insertmacro MUI_PAGE_LICENSE \"%s\"", c.paths.LicenseFile))
	}
	lines = append(lines,
		"!insertmacro MUI_PAGE_DIRECTORY",
		"!insertmacro MUI_PAGE_INSTFILES",
		"!insertmacro MUI_UNPAGE_CONFIRM",
		"!insertmacro MUI_UNPAGE_INSTFILES",
	)
	return strings.Join(lines, "\n")
}

func (c *Context) buildLanguages() string {
	var lines []string
	for _, lang := range c.languages {
		lines = append(lines, fmt.Sprintf("!insertmacro MUI_LANGUAGE \"%s\"", lang))
	}
	return strings.Join(lines, "\n")
}

func (c *Context) buildBranding() string {
	if c.branding == "" {
		return ""
	}
	return fmt.Sprintf("BrandingText \"%s\"", c.branding)
}

// buildHelpers emits the logging writer, the startup-argument parser, and -
// only when an append-mode environment change exists - the semicolon-list
// routines in forward and uninstall-context variants.
func (c *Context) buildHelpers() string {
	var sb strings.Builder

	sb.WriteString(divider + "\n")
	sb.WriteString(";--- Helper: write a message to log file if logging is enabled ---\n")
	sb.WriteString("Function WriteLog\n")
	sb.WriteString("  Exch $0\n")
	sb.WriteString("  StrCmp $LOGHANDLE \"\" 0 +3\n")
	sb.WriteString("    Exch $0\n")
	sb.WriteString("    Return\n")
	sb.WriteString("  FileWrite $LOGHANDLE \"$0$\\r$\\n\"\n")
	sb.WriteString("  Exch $0\n")
	sb.WriteString("FunctionEnd\n\n")

	sb.WriteString(divider + "\n")
	sb.WriteString(";--- Init: parse /NOICONS and /LOG[=FILE] ---\n")
	sb.WriteString("Function .onInit\n")
	sb.WriteString("  ${GetParameters} $R0\n\n")
	sb.WriteString("  ClearErrors\n")
	sb.WriteString("  ${GetOptions} $R0 \"/NOICONS\" $R1\n")
	sb.WriteString("  IfErrors +2\n")
	sb.WriteString("    StrCpy $NOICONS \"1\"\n\n")
	sb.WriteString("  ClearErrors\n")
	sb.WriteString("  ${GetOptions} $R0 \"/LOG=\" $R1\n")
	sb.WriteString("  IfErrors tryPlainLog\n")
	sb.WriteString("    StrCpy $LOGFILE $R1\n")
	sb.WriteString("    Goto setupLog\n\n")
	sb.WriteString("  tryPlainLog:\n")
	sb.WriteString("  ClearErrors\n")
	sb.WriteString("  ${GetOptions} $R0 \"/LOG\" $R1\n")
	sb.WriteString("  IfErrors endLog\n")
	sb.WriteString("    StrCpy $LOGFILE \"$TEMP\\${APPNAME}_install.log\"\n")
	sb.WriteString("    Goto setupLog\n\n")
	sb.WriteString("  setupLog:\n")
	sb.WriteString("    ${GetParent} $LOGFILE $R2\n")
	sb.WriteString("    CreateDirectory \"$R2\"\n")
	sb.WriteString("    ClearErrors\n")
	sb.WriteString("    FileOpen $LOGHANDLE $LOGFILE w\n")
	sb.WriteString("    IfErrors 0 +3\n")
	sb.WriteString("      MessageBox MB_ICONEXCLAMATION \"Failed to open log file: $LOGFILE\"\n")
	sb.WriteString("      StrCpy $LOGHANDLE \"\"\n")
	sb.WriteString("    Push \"Logging enabled: $LOGFILE\"\n")
	sb.WriteString("    Call WriteLog\n\n")
	sb.WriteString("  endLog:\n")
	sb.WriteString("FunctionEnd\n")

	if c.hasAppend {
		sb.WriteString("\n")
		c.writeListHelpers(&sb, false)
		sb.WriteString("\n")
		c.writeListHelpers(&sb, true)
	}

	return sb.String()
}

// writeListHelpers emits the semicolon-list Remove routine and, for the
// install context, the Add routine built on top of it. The list and the
// element are wrapped in sentinel semicolons before replacement so only
// whole elements ever match; removing "bin" can never corrupt "bin2".
func (c *Context) writeListHelpers(sb *strings.Builder, uninstall bool) {
	prefix := ""
	strRep := "StrRep"
	title := "Remove an element from a semicolon-separated list"
	if uninstall {
		prefix = "un."
		strRep = "UnStrRep"
		title += " (Uninstall variant)"
	}

	sb.WriteString(divider + "\n")
	sb.WriteString(";--- " + title + " ---\n")
	sb.WriteString("; Matches whole elements only: the list is wrapped in sentinel semicolons\n")
	sb.WriteString("; and \";element;\" is collapsed until stable.\n")
	sb.WriteString("${Using:StrFunc} " + strRep + "\n")
	sb.WriteString("Function " + prefix + "RemoveFromSemicolonList\n")
	sb.WriteString("  Exch $1        ; Element to remove\n")
	sb.WriteString("  Exch\n")
	sb.WriteString("  Exch $0        ; Original list\n\n")
	sb.WriteString("  StrCpy $0 \";$0;\"\n")
	sb.WriteString("  " + prefix + "removeLoop:\n")
	sb.WriteString("    StrCpy $2 $0\n")
	sb.WriteString("    ${" + strRep + "} $0 $0 \";$1;\" \";\"\n")
	sb.WriteString("    StrCmp $0 $2 0 " + prefix + "removeLoop\n\n")
	sb.WriteString("  ; Strip the sentinel semicolons\n")
	sb.WriteString("  StrCpy $2 $0 1\n")
	sb.WriteString("  StrCmp $2 \";\" 0 +2\n")
	sb.WriteString("    StrCpy $0 $0 \"\" 1\n")
	sb.WriteString("  StrLen $3 $0\n")
	sb.WriteString("  IntOp $3 $3 - 1\n")
	sb.WriteString("  StrCpy $2 $0 1 $3\n")
	sb.WriteString("  StrCmp $2 \";\" 0 +2\n")
	sb.WriteString("    StrCpy $0 $0 $3\n\n")
	sb.WriteString("  Push $0\n")
	sb.WriteString("FunctionEnd\n")

	if uninstall {
		return
	}

	sb.WriteString("\n" + divider + "\n")
	sb.WriteString(";--- Add an element to a semicolon-separated list (no duplicates) ---\n")
	sb.WriteString("Function AddToSemicolonList\n")
	sb.WriteString("  Exch $1        ; Element to add\n")
	sb.WriteString("  Exch\n")
	sb.WriteString("  Exch $0        ; Original list\n\n")
	sb.WriteString("  ; Remove existing occurrences, then append as the last element\n")
	sb.WriteString("  Push $0\n")
	sb.WriteString("  Push $1\n")
	sb.WriteString("  Call RemoveFromSemicolonList\n")
	sb.WriteString("  Pop $0\n\n")
	sb.WriteString("  StrCmp $0 \"\" 0 +3\n")
	sb.WriteString("    StrCpy $0 \"$1\"\n")
	sb.WriteString("    Goto doneAdd\n")
	sb.WriteString("  StrCpy $0 \"$0;$1\"\n\n")
	sb.WriteString("  doneAdd:\n")
	sb.WriteString("  Push $0\n")
	sb.WriteString("FunctionEnd\n")
}

// buildInstallSection emits the Install procedure: payload copy, registry
// writes, environment changes, uninstall registration, and shortcuts.
func (c *Context) buildInstallSection() string {
	p := c.project
	var sb strings.Builder

	sb.WriteString(divider + "\n")
	sb.WriteString("Section \"Install\"\n")
	fmt.Fprintf(&sb, "  SetRegView %d\n", p.RegViewBits())
	fmt.Fprintf(&sb, "  SetShellVarContext %s\n\n", p.ShellVarContext())
	sb.WriteString("  Push \"Installation started\"\n")
	sb.WriteString("  Call WriteLog\n\n")
	sb.WriteString("  SetOutPath \"$INSTDIR\"\n")
	if c.exeDir != "" {
		sb.WriteString("  ; Copy application files (recursively) from exported exe directory\n")
		fmt.Fprintf(&sb, "  File /r \"%s\\*.*\"\n", c.exeDir)
	}

	if len(c.rows) > 0 {
		sb.WriteString("\n  ; Write custom registry entries\n")
		sb.WriteString("  Push \"Writing custom registry entries\"\n")
		sb.WriteString("  Call WriteLog\n")
		for _, row := range c.rows {
			if row.Kind == model.KindDword {
				fmt.Fprintf(&sb, "  WriteRegDWORD %s \"%s\" \"%s\" %s\n", row.Root, row.Key, row.Value, row.Data)
				fmt.Fprintf(&sb, "  Push \"WriteRegDWORD %s %s %s=%s\"\n", row.Root, row.Key, row.Value, row.Data)
			} else {
				fmt.Fprintf(&sb, "  WriteRegStr %s \"%s\" \"%s\" \"%s\"\n", row.Root, row.Key, row.Value, row.Data)
				fmt.Fprintf(&sb, "  Push \"WriteRegStr %s %s %s=%s\"\n", row.Root, row.Key, row.Value, row.Data)
			}
			sb.WriteString("  Call WriteLog\n")
		}
		sb.WriteString("  ; Notify system about potential shell changes\n")
		sb.WriteString("  Push \"Trigger SHChangeNotify\"\n")
		sb.WriteString("  Call WriteLog\n")
		sb.WriteString("  System::Call 'shell32::SHChangeNotify(i 0x08000000, i 0x0000, p 0, p 0)'\n")
	}

	if c.hasEnv {
		root, envKey := c.envRegLocation()
		sb.WriteString("\n  ; Environment variables: set or append to existing semicolon-separated lists\n")
		sb.WriteString("  SetRegView 64\n")
		for _, env := range p.EnvRows {
			if env.Mode == model.EnvSet {
				fmt.Fprintf(&sb, "  ; Set %s to provided value (overwrites existing)\n", env.Name)
				fmt.Fprintf(&sb, "  Push \"Setting environment variable %s=%s\"\n", env.Name, env.Value)
				sb.WriteString("  Call WriteLog\n")
				fmt.Fprintf(&sb, "  WriteRegExpandStr %s \"%s\" \"%s\" \"%s\"\n", root, envKey, env.Name, env.Value)
			} else {
				fmt.Fprintf(&sb, "  ; Append value to %s without duplicates\n", env.Name)
				fmt.Fprintf(&sb, "  Push \"Appending to environment variable %s: %s\"\n", env.Name, env.Value)
				sb.WriteString("  Call WriteLog\n")
				fmt.Fprintf(&sb, "  ReadRegStr $0 %s \"%s\" \"%s\"\n", root, envKey, env.Name)
				sb.WriteString("  Push \"$0\"\n")
				fmt.Fprintf(&sb, "  Push \"%s\"\n", env.Value)
				sb.WriteString("  Call AddToSemicolonList\n")
				sb.WriteString("  Pop $1\n")
				fmt.Fprintf(&sb, "  WriteRegExpandStr %s \"%s\" \"%s\" \"$1\"\n", root, envKey, env.Name)
			}
		}
		sb.WriteString("  ; Notify system about environment variable changes\n")
		sb.WriteString("  Push \"Broadcasting WM_SETTINGCHANGE for Environment\"\n")
		sb.WriteString("  Call WriteLog\n")
		sb.WriteString("  System::Call 'User32::SendMessageTimeoutW(i 0xffff, i ${WM_SETTINGCHANGE}, i 0, w \"Environment\", i 0, i 5000, *i .r0)'\n")
	}

	c.writeUninstallRegistration(&sb)

	sb.WriteString("\n  ; Shortcuts\n")
	sb.WriteString("  StrCmp $NOICONS \"1\" skipShortcuts\n")
	sb.WriteString("    Push \"Creating shortcuts\"\n")
	sb.WriteString("    Call WriteLog\n")
	sb.WriteString("    CreateDirectory \"$SMPROGRAMS\\${APPNAME}\"\n")
	sb.WriteString("    CreateShortCut \"$SMPROGRAMS\\${APPNAME}\\${APPNAME}.lnk\" \"$INSTDIR\\${EXEFILE}\"\n")
	sb.WriteString("    CreateShortCut \"$DESKTOP\\${APPNAME}.lnk\" \"$INSTDIR\\${EXEFILE}\"\n")
	sb.WriteString("  skipShortcuts:\n\n")
	sb.WriteString("  Push \"Installation finished successfully\"\n")
	sb.WriteString("  Call WriteLog\n")
	sb.WriteString("SectionEnd\n")

	return sb.String()
}

// writeUninstallRegistration emits the Add/Remove Programs block. The
// uninstall keys always live in the 64-bit registry view regardless of the
// payload's own bit-width.
func (c *Context) writeUninstallRegistration(sb *strings.Builder) {
	p := c.project
	root := string(p.DefaultHive())
	uninstKey := `Software\Microsoft\Windows\CurrentVersion\Uninstall\${APPNAME}`

	sb.WriteString("\n  ; Uninstall registration (Add/Remove Programs)\n")
	sb.WriteString("  SetRegView 64\n")
	sb.WriteString("  Push \"Registering uninstaller in Add/Remove Programs\"\n")
	sb.WriteString("  Call WriteLog\n")
	fmt.Fprintf(sb, "  WriteRegStr %s \"Software\\${APPNAME}\" \"Install_Dir\" \"$INSTDIR\"\n", root)
	fmt.Fprintf(sb, "  WriteRegStr %s \"Software\\${APPNAME}\" \"Publisher\" \"${COMPANYNAME}\"\n", root)
	fmt.Fprintf(sb, "  WriteRegStr %s \"Software\\${APPNAME}\" \"Version\" \"${VERSION}\"\n", root)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"DisplayName\" \"${APPNAME} ${VERSION}\"\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"DisplayVersion\" \"${VERSION}\"\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"UninstallString\" '\"$INSTDIR\\Uninstall.exe\"'\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"QuietUninstallString\" '\"$INSTDIR\\Uninstall.exe\" /S'\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"DisplayIcon\" \"$INSTDIR\\${EXEFILE}\"\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"Publisher\" \"${COMPANYNAME}\"\n", root, uninstKey)
	fmt.Fprintf(sb, "  WriteRegExpandStr %s \"%s\" \"InstallLocation\" \"$INSTDIR\"\n", root, uninstKey)

	// Optional registration fields, emitted only when present.
	if c.helpURL != "" {
		fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"HelpLink\" \"%s\"\n", root, uninstKey, c.helpURL)
	}
	if c.aboutURL != "" {
		fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"URLInfoAbout\" \"%s\"\n", root, uninstKey, c.aboutURL)
	}
	if c.updateURL != "" {
		fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"URLUpdateInfo\" \"%s\"\n", root, uninstKey, c.updateURL)
	}
	if c.contact != "" {
		fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"Contact\" \"%s\"\n", root, uninstKey, c.contact)
	}
	if c.comments != "" {
		fmt.Fprintf(sb, "  WriteRegStr %s \"%s\" \"Comments\" \"%s\"\n", root, uninstKey, c.comments)
	}
	if p.EstimatedKB > 0 {
		fmt.Fprintf(sb, "  WriteRegDWORD %s \"%s\" \"EstimatedSize\" %d\n", root, uninstKey, p.EstimatedKB)
	}
	sb.WriteString("  WriteUninstaller \"$INSTDIR\\Uninstall.exe\"\n")
}

// buildUninstallSection emits the structural mirror of the Install section:
// every effect the installer produced is undone in reverse responsibility.
func (c *Context) buildUninstallSection() string {
	p := c.project
	root := string(p.DefaultHive())
	var sb strings.Builder

	sb.WriteString(divider + "\n")
	sb.WriteString("Section \"Uninstall\"\n")
	fmt.Fprintf(&sb, "  SetRegView %d\n", p.RegViewBits())
	fmt.Fprintf(&sb, "  SetShellVarContext %s\n\n", p.ShellVarContext())

	sb.WriteString("  ; Remove shortcuts\n")
	sb.WriteString("  Delete \"$SMPROGRAMS\\${APPNAME}\\${APPNAME}.lnk\"\n")
	sb.WriteString("  RMDir \"$SMPROGRAMS\\${APPNAME}\"\n")
	sb.WriteString("  Delete \"$DESKTOP\\${APPNAME}.lnk\"\n")

	if len(c.rows) > 0 {
		sb.WriteString("\n  ; Remove custom registry entries (mirrors install writes)\n")
		for _, row := range c.rows {
			fmt.Fprintf(&sb, "  DeleteRegValue %s \"%s\" \"%s\"\n", row.Root, row.Key, row.Value)
			fmt.Fprintf(&sb, "  DeleteRegKey /ifempty %s \"%s\"\n", row.Root, row.Key)
		}
		sb.WriteString("  ; Notify system about potential shell changes\n")
		sb.WriteString("  System::Call 'shell32::SHChangeNotify(i 0x08000000, i 0x0000, p 0, p 0)'\n")
	}

	sb.WriteString("\n  ; Remove uninstall registry keys\n")
	sb.WriteString("  SetRegView 64\n")
	fmt.Fprintf(&sb, "  DeleteRegKey %s \"Software\\${APPNAME}\"\n", root)
	fmt.Fprintf(&sb, "  DeleteRegKey %s \"Software\\Microsoft\\Windows\\CurrentVersion\\Uninstall\\${APPNAME}\"\n", root)

	if c.hasEnv {
		envRoot, envKey := c.envRegLocation()
		sb.WriteString("\n  ; Remove or update environment variables\n")
		sb.WriteString("  SetRegView 64\n")
		for i, env := range p.EnvRows {
			if env.Mode == model.EnvSet {
				fmt.Fprintf(&sb, "  ; Delete variable %s (was set by installer)\n", env.Name)
				fmt.Fprintf(&sb, "  DeleteRegValue %s \"%s\" \"%s\"\n", envRoot, envKey, env.Name)
				continue
			}
			fmt.Fprintf(&sb, "  ; Remove appended fragment from %s\n", env.Name)
			fmt.Fprintf(&sb, "  ReadRegStr $0 %s \"%s\" \"%s\"\n", envRoot, envKey, env.Name)
			fmt.Fprintf(&sb, "  StrCmp \"$0\" \"\" done_env_%d\n", i)
			sb.WriteString("  Push \"$0\"\n")
			fmt.Fprintf(&sb, "  Push \"%s\"\n", env.Value)
			sb.WriteString("  Call un.RemoveFromSemicolonList\n")
			sb.WriteString("  Pop $1\n")
			// A list that became empty means the variable is deleted, not
			// written back as an empty value.
			fmt.Fprintf(&sb, "  StrCmp $1 \"\" 0 write_env_%d\n", i)
			fmt.Fprintf(&sb, "    DeleteRegValue %s \"%s\" \"%s\"\n", envRoot, envKey, env.Name)
			fmt.Fprintf(&sb, "    Goto done_env_%d\n", i)
			fmt.Fprintf(&sb, "  write_env_%d:\n", i)
			fmt.Fprintf(&sb, "    WriteRegExpandStr %s \"%s\" \"%s\" \"$1\"\n", envRoot, envKey, env.Name)
			fmt.Fprintf(&sb, "  done_env_%d:\n", i)
		}
		sb.WriteString("  ; Notify system about environment variable changes\n")
		sb.WriteString("  System::Call 'User32::SendMessageTimeoutW(i 0xffff, i ${WM_SETTINGCHANGE}, i 0, w \"Environment\", i 0, i 5000, *i .r0)'\n")
	}

	sb.WriteString("\n  ; Remove installed directory recursively\n")
	sb.WriteString("  RMDir /r \"$INSTDIR\"\n")
	sb.WriteString("SectionEnd\n")

	return sb.String()
}
