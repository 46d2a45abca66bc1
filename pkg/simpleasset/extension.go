package simpleasset

import (
	"path/filepath"
	"strings"
)

// ExtensionFromPath classifies a filesystem path's extension against the
// allow-list, case-insensitively. It returns the typed extension and true on
// a match, or ("", false) for a path with no extension or one the catalog
// does not understand. An unrecognized extension is a normal negative
// result, not an error; the function is total over arbitrary input,
// including empty and non-ASCII strings.
func ExtensionFromPath(path string) (Extension, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	// A dotfile like ".png" has no extension, only a name.
	if ext == "" || ext == base {
		return "", false
	}
	// filepath.Ext keeps the leading dot.
	candidate := Extension(strings.ToLower(ext[1:]))
	if !knownExtensions[candidate] {
		return "", false
	}
	return candidate, true
}

// KnownExtensions returns the extensions the catalog understands.
func KnownExtensions() []Extension {
	exts := make([]Extension, 0, len(knownExtensions))
	for ext := range knownExtensions {
		exts = append(exts, ext)
	}
	return exts
}
