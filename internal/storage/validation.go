package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSnapshotNameLength bounds snapshot names.
const MaxSnapshotNameLength = 100

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSnapshotName rejects blank, overlong, and multi-line names.
func validateSnapshotName(name string) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if utf8.RuneCountInString(name) > MaxSnapshotNameLength {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidSnapshot, MaxSnapshotNameLength)
	}
	if strings.ContainsAny(name, "\r\n\t") {
		return fmt.Errorf("%w: name contains control characters", ErrInvalidSnapshot)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: name has leading or trailing spaces", ErrInvalidSnapshot)
	}
	return nil
}
