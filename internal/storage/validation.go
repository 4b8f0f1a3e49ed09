package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/audience-scope/internal/common"
	"github.com/Veraticus/audience-scope/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidLimit = errors.New("limit must be positive")
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
		return fmt.Errorf("%w: %w: %s", common.ErrInvalidInput, ErrEmptyString, paramName)
	}
	return nil
}

// validateLimit ensures a listing limit is usable.
func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: %w: %d", common.ErrInvalidInput, ErrInvalidLimit, limit)
	}
	return nil
}

// validateReport ensures a report is present.
func validateReport(report *model.AnalysisReport) error {
	if report == nil {
		return fmt.Errorf("%w: %w: report", common.ErrInvalidInput, ErrNilParameter)
	}
	return nil
}

// truncateName shortens a group name to the column width without splitting runes.
func truncateName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= model.MaxGroupNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:model.MaxGroupNameLength])
}
