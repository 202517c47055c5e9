package errors

import "fmt"

// Common error constructors used throughout the codebase

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause).
		WithSuggestions(
			"Check the file for syntax errors",
			"Only declarations are parsed; method bodies are skipped as balanced braces",
		)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// NewAccessibilityError reports a member whose accessibility cannot be rendered
func NewAccessibilityError(member, accessibility string) *BaseError {
	return Newf(AccessibilityErrorCode, "member '%s' has unsupported accessibility '%s'", member, accessibility).
		WithContext("member", member).
		WithContext("accessibility", accessibility).
		WithSuggestions("Interface members may only be public, internal or protected")
}

// NewUnsupportedMemberError reports a member the generator cannot express
func NewUnsupportedMemberError(member, reason string) *BaseError {
	return Newf(UnsupportedMemberErrorCode, "member '%s' is not supported: %s", member, reason).
		WithContext("member", member)
}

// NewDuplicateMemberError reports a second accessor of the same kind for one property
func NewDuplicateMemberError(member string) *BaseError {
	return Newf(DuplicateMemberErrorCode, "duplicate accessor '%s'", member).
		WithContext("member", member)
}

// NewValidationError reports an invalid input value
func NewValidationError(field, constraint string) *BaseError {
	return Newf(ValidationErrorCode, "validation failed for field '%s': %s", field, constraint).
		WithContext("field", field)
}

// NewConfigurationError reports an invalid configuration value
func NewConfigurationError(key string, value interface{}, constraint string) *BaseError {
	return Newf(ConfigurationErrorCode, "invalid configuration '%s' = %v: %s", key, value, constraint).
		WithContext("key", key).
		WithContext("value", value)
}
