package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/docxval/internal/errors"
)

// Fixer is implemented by checks that can repair what they detect when
// doctor runs with --fix.
type Fixer interface {
	// CanFix reports whether the last Run found anything it can repair.
	CanFix() bool

	// Fix repairs what the last Run found and reports one result per path.
	Fix() []FixResult
}

// FixResult describes the outcome of one repair.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// Modes applied by PermissionFixer.
const (
	secureFilePerm os.FileMode = 0o644
	secureDirPerm  os.FileMode = 0o755
)

// PermissionFixer repairs the permission issues recorded by
// PathPermissionCheck, which embeds it.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	count := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			count++
		}
	}
	return count
}

// Fix applies the secure mode to every fixable path, files first so that a
// directory fix cannot hide a file.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, kind := range []string{"file", "directory"} {
		for _, issue := range f.issues {
			if issue.Fixable && issue.Type == kind {
				results = append(results, chmod(issue.Path, targetPerm(kind)))
			}
		}
	}
	return results
}

func targetPerm(kind string) os.FileMode {
	if kind == "directory" {
		return secureDirPerm
	}
	return secureFilePerm
}

func chmod(path string, perm os.FileMode) FixResult {
	if err := os.Chmod(path, perm); err != nil {
		return FixResult{
			Path:        path,
			Description: fmt.Sprintf("failed to chmod %04o: %v", perm, err),
			Error:       errors.Wrapf(err, "chmod %04o %s", perm, path),
		}
	}
	return FixResult{
		Path:        path,
		Fixed:       true,
		Description: fmt.Sprintf("chmod %04o", perm),
	}
}

// setIssues stores the issues found by the check for later fixing.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}
