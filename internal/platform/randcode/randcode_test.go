package randcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	code, err := Generate(6, Upper)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(Upper, c), "unexpected rune %q", c)
	}
}

func TestGenerate_Invalid(t *testing.T) {
	_, err := Generate(0, Upper)
	assert.Error(t, err)
	_, err = Generate(4, "")
	assert.Error(t, err)
}
