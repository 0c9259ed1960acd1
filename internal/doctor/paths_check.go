package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathPermissionCheck validates the config directory, the config file and
// the directory the metrics file is written to.
type PathPermissionCheck struct {
	PermissionFixer

	configDir   string
	configFile  string
	metricsFile string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a path permission check. Empty paths are
// skipped.
func NewPathPermissionCheck(configDir, configFile, metricsFile string) *PathPermissionCheck {
	return &PathPermissionCheck{
		configDir:   configDir,
		configFile:  configFile,
		metricsFile: metricsFile,
	}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the path and permission diagnostic check.
func (c *PathPermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	var checked int

	if c.configDir != "" {
		issues = append(issues, c.checkDirectory(c.configDir, false)...)
		checked++
	}
	if c.configFile != "" {
		issues = append(issues, c.checkFile(c.configFile)...)
		checked++
	}
	if c.metricsFile != "" {
		issues = append(issues, c.checkDirectory(filepath.Dir(c.metricsFile), true)...)
		checked++
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string // octal representation if available
	Fixable     bool
	FixHint     string
}

// checkFile validates the config file path and permissions.
func (c *PathPermissionCheck) checkFile(path string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		// A missing config file means defaults apply
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Type:     "file",
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Type:        "file",
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		}}
	}
	f.Close()

	// Unix permissions don't apply on Windows
	if runtime.GOOS == "windows" {
		return nil
	}
	if info.Mode().Perm()&0o002 != 0 {
		return []pathIssue{{
			Path:        path,
			Type:        "file",
			Problem:     "file is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		}}
	}
	return nil
}

// checkDirectory validates a directory. A missing directory is an error
// only when required is set.
func (c *PathPermissionCheck) checkDirectory(path string, required bool) []pathIssue {
	var issues []pathIssue

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if !required {
			return nil
		}
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  "directory does not exist",
			Severity: SeverityError,
			FixHint:  "mkdir -p " + path,
		}}
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}

	if !info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}
	}

	if !isDirectoryWritable(path) {
		severity := SeverityWarning
		if required {
			severity = SeverityError
		}
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is not writable",
			Severity:    severity,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod u+w " + path,
		})
	}

	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 && info.Mode()&os.ModeSticky == 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 755 " + path,
		})
	}

	return issues
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	tmpFile, err := os.CreateTemp(path, ".docxval-doctor-*")
	if err != nil {
		return false
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)
	return true
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d paths have valid permissions", checked),
		}
	}

	status := SeverityWarning
	issueDetails := make([]map[string]any, 0, len(issues))
	var fixHints []string
	fixable := false
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			status = SeverityError
		}

		issueMap := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			issueMap["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			issueMap["fix_hint"] = issue.FixHint
			fixHints = append(fixHints, issue.FixHint)
		}
		issueDetails = append(issueDetails, issueMap)
		fixable = fixable || issue.Fixable
	}

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issue_count":   len(issues),
			"issues":        issueDetails,
		},
		Fixable: fixable,
		FixHint: strings.Join(fixHints, "; "),
	}
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
