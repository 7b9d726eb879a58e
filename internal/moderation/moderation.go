// Package moderation screens whisper text before it reaches the wall.
package moderation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrRejected is wrapped by every validation failure so callers can
// distinguish moderation rejections from infrastructure errors.
var ErrRejected = errors.New("whisper rejected")

const (
	// MaxTextLength bounds a whisper body after trimming.
	MaxTextLength = 280
)

// defaultBadWords is the built-in screening list. Matching is
// case-insensitive on word-ish boundaries, so "grape" does not trip on "ape".
var defaultBadWords = []string{
	"slur1", "slur2", "doxx", "kys",
}

// Validator checks whisper text against length bounds and a word list.
type Validator struct {
	badWords []string
}

// NewValidator creates a validator with the built-in word list.
func NewValidator() *Validator {
	return NewValidatorWithWords(defaultBadWords)
}

// NewValidatorWithWords creates a validator with a custom word list.
func NewValidatorWithWords(words []string) *Validator {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return &Validator{badWords: lowered}
}

// ValidateWhisperText returns nil when text is postable, or an error naming
// every failed rule.
func (v *Validator) ValidateWhisperText(text string) error {
	trimmed := strings.TrimSpace(text)

	var failures []string
	if trimmed == "" {
		failures = append(failures, "text is empty")
	}
	if len(trimmed) > MaxTextLength {
		failures = append(failures, fmt.Sprintf("text exceeds %d characters", MaxTextLength))
	}
	if v.ContainsBadWords(trimmed) {
		failures = append(failures, "text contains blocked words")
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(failures, "; "))
	}
	return nil
}

// ContainsBadWords reports whether any listed word appears in text as a
// whole word.
func (v *Validator) ContainsBadWords(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		for _, bad := range v.badWords {
			if w == bad {
				return true
			}
		}
	}
	return false
}
