package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateItemID validates a balance item identifier for safety and
// correctness. It rejects ids that could be used for path traversal or
// injection when embedded in cache keys and file names.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Sheet-specific conventions (snake_case ids, naming schemes) are enforced
// by the balance loaders, not here.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidItem, "item id too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidItem, "item id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateSheetFilename validates a balance sheet filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateSheetFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidSheet, "sheet filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidSheet, "sheet filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidSheet, "sheet filename cannot be a hidden file")
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return New(ErrCodeInvalidSheet, "sheet filename must end in .csv: %q", filename)
	}

	return nil
}

// ValidatePath validates a file path within a data directory for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// personaNameRegex matches valid persona names: lowercase snake_case.
var personaNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidatePersonaName validates a simulator persona name.
func ValidatePersonaName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPersona, "persona name cannot be empty")
	}

	if !personaNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPersona, "invalid persona name: %q (must be lowercase snake_case)", name)
	}

	return nil
}

// runIDRegex matches simulation run ids (UUID format).
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a simulation run identifier.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}

	if !runIDRegex.MatchString(strings.ToLower(id)) {
		return New(ErrCodeInvalidInput, "invalid run id: %q", id)
	}

	return nil
}
