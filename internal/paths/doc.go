// Package paths resolves the filesystem locations docxval reads its own
// configuration from.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux the configuration directory is ~/.config/docxval; the
// DOCXVAL_CONFIG_DIR environment variable overrides it.
package paths
