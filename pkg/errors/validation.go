package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateReferencePath validates the path part of a scoped content
// reference (the text after "@library/" and friends) before it is joined
// onto a content directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No parent directory segments (..)
//   - No backslashes (Windows-style paths)
func ValidateReferencePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "reference path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "reference path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "reference path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "reference path must be relative (cannot start with /)")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "reference path cannot leave its content directory (..)")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "reference path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

var sectionKeyRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateSectionKey checks that a section key is a snake_case identifier,
// as produced by the blueprint generator and the legacy bridge.
func ValidateSectionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "section key cannot be empty")
	}
	if !sectionKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid section key: %q (use lowercase letters, digits and underscores)", key)
	}
	return nil
}
