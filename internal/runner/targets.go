package runner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultExtension selects targets when none are named.
const DefaultExtension = ".docx"

// ResolveTargets turns command-line arguments into absolute target paths.
//
// With no arguments every regular file in cwd whose extension matches ext
// (ignoring case) is a target, in name order. A directory argument expands
// the same way. Any other argument is a target as given, even if it does
// not exist; opening it will fail later and be reported per target.
func ResolveTargets(args []string, cwd, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "getting working directory")
		}
		cwd = wd
	}

	if len(args) == 0 {
		return matchingFiles(cwd, ext)
	}

	var targets []string
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		path = filepath.Clean(path)

		if info, err := os.Stat(path); err == nil && info.IsDir() {
			files, err := matchingFiles(path, ext)
			if err != nil {
				return nil, err
			}
			targets = append(targets, files...)
			continue
		}
		targets = append(targets, path)
	}
	return targets, nil
}

// matchingFiles lists the regular files in dir with extension ext, sorted
// by name. Subdirectories are not searched.
func matchingFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		if !entry.Type().IsRegular() {
			// Follow symlinks to regular files.
			info, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
