package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-project/custodia/pkg/textutil"
)

func TestSanitize_PassesCleanTextThrough(t *testing.T) {
	assert.Equal(t, "plain ascii 123", textutil.Sanitize([]byte("plain ascii 123")))
}

func TestSanitize_ReplacesIllFormedBytes(t *testing.T) {
	out := textutil.Sanitize([]byte("a\xffb"))
	assert.Equal(t, "a�b", out)
}

func TestSanitize_ComposesToNFC(t *testing.T) {
	// e + combining acute accent composes to the single precomposed rune.
	out := textutil.Sanitize([]byte("cafe\u0301"))
	assert.Equal(t, "caf\u00e9", out)
}

func TestSanitize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", textutil.Sanitize(nil))
}
