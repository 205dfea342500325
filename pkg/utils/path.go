package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePathWithinBase validates that a target path stays inside a base
// directory once cleaned. The cache builds entry paths from hex digests, so
// violations indicate corrupted input rather than user error, but every
// path that ends up in an open or remove call is checked anyway.
func ValidatePathWithinBase(base, path string) error {
	if base == "" {
		return fmt.Errorf("base path cannot be empty")
	}
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanBase := filepath.Clean(base)
	cleanPath := filepath.Clean(path)

	rel, err := filepath.Rel(cleanBase, cleanPath)
	if err != nil {
		return fmt.Errorf("path %q not relative to %q: %w", path, base, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes base directory %q", path, base)
	}

	return nil
}
