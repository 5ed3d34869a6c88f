package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID checks that a dataset node identifier is usable as a scene
// key: non-empty, bounded and free of control characters.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDataset, "node id cannot be empty")
	}

	if len(id) > 512 {
		return New(ErrCodeInvalidDataset, "node id too long (max 512 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateSelector checks a container selector before it is handed to a host.
func ValidateSelector(sel string) error {
	if strings.TrimSpace(sel) == "" {
		return New(ErrCodePrecondition, "container selector cannot be empty")
	}
	return nil
}

// ValidatePath validates an output path written by the CLI.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(strings.ReplaceAll(path, "\\", "/"), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
