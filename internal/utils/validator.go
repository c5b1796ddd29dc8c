package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Kosench/go-article-counter/internal/errors"
)

// MaxSlugLength matches the width of the slug column.
const MaxSlugLength = 255

// ValidateSlug checks a slug without altering it: keys are case-sensitive and
// stored exactly as received.
func ValidateSlug(slug string) error {
	if slug == "" {
		return apperrors.NewMissingKeyError("slug parameter is required")
	}

	if len(slug) > MaxSlugLength {
		return apperrors.NewMissingKeyError(fmt.Sprintf("slug is too long (max %d bytes)", MaxSlugLength))
	}

	if !utf8.ValidString(slug) {
		return apperrors.NewMissingKeyError("slug must be valid UTF-8")
	}

	if strings.ContainsRune(slug, 0) {
		return apperrors.NewMissingKeyError("slug must not contain NUL characters")
	}

	return nil
}

// SingleValue returns the only value of a repeated query parameter, or false
// when the parameter is absent or given more than once.
func SingleValue(values []string) (string, bool) {
	if len(values) != 1 {
		return "", false
	}
	return values[0], true
}
