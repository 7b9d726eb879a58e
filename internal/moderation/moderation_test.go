package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWhisperText_Accepts(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateWhisperText("the rain finally stopped"))
}

func TestValidateWhisperText_RejectsEmpty(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.ValidateWhisperText(""))
	assert.Error(t, v.ValidateWhisperText("   \t\n"))
}

func TestValidateWhisperText_RejectsOverlong(t *testing.T) {
	v := NewValidator()
	err := v.ValidateWhisperText(strings.Repeat("x", MaxTextLength+1))
	assert.ErrorContains(t, err, "exceeds")
}

func TestValidateWhisperText_TrimsBeforeLengthCheck(t *testing.T) {
	v := NewValidator()
	padded := "  " + strings.Repeat("x", MaxTextLength) + "  "
	assert.NoError(t, v.ValidateWhisperText(padded))
}

func TestContainsBadWords_WholeWordOnly(t *testing.T) {
	v := NewValidatorWithWords([]string{"ape"})

	assert.True(t, v.ContainsBadWords("an ape appeared"))
	assert.True(t, v.ContainsBadWords("APE!"))
	assert.False(t, v.ContainsBadWords("a grape appeared"))
	assert.False(t, v.ContainsBadWords("drapes"))
}

func TestValidateWhisperText_WrapsErrRejected(t *testing.T) {
	v := NewValidator()
	assert.ErrorIs(t, v.ValidateWhisperText(""), ErrRejected)
}

func TestValidateWhisperText_ReportsAllFailures(t *testing.T) {
	v := NewValidatorWithWords([]string{"bad"})
	err := v.ValidateWhisperText("bad " + strings.Repeat("x", MaxTextLength))

	assert.ErrorContains(t, err, "exceeds")
	assert.ErrorContains(t, err, "blocked words")
}
