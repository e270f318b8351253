// Package fileguard vets relative file names before they are written
// into a package tree or archive. Every name that reaches an output
// writer goes through Check first.
package fileguard

import (
	"fmt"
	"strings"
)

// Check rejects names that could escape or corrupt the package root.
// Valid names are slash-separated, relative, and free of traversal
// segments.
func Check(name string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("absolute path %q not allowed", name)
	}
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("backslash in file name %q", name)
	}
	if strings.ContainsRune(name, '\x00') {
		return fmt.Errorf("NUL byte in file name %q", name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" {
			return fmt.Errorf("empty path segment in %q", name)
		}
		if seg == "." || seg == ".." {
			return fmt.Errorf("path traversal segment in %q", name)
		}
	}
	return nil
}

// Base returns the final path segment of a slash-separated name.
func Base(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}
