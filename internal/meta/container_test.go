package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nixos-type-generator/internal/errs"
)

func TestParseDirectives(t *testing.T) {
	c, err := ParseDirectives("T", []string{"nixos:autodoc", "nixos:name dbSettings"})
	require.NoError(t, err)
	assert.Equal(t, Container{AutoDoc: true, Name: "dbSettings"}, c)

	c, err = ParseDirectives("T", nil)
	require.NoError(t, err)
	assert.Equal(t, Container{}, c)

	// other tools' directives are not ours to judge
	c, err = ParseDirectives("T", []string{"go:generate stringer"})
	require.NoError(t, err)
	assert.False(t, c.AutoDoc)
}

func TestParseDirectives_Misuse(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		suggestion string
	}{
		{"unknown", "nixos:autodocs", "autodoc"},
		{"name without argument", "nixos:name", ""},
		{"name not identifier", "nixos:name 1st type", ""},
		{"autodoc with argument", "nixos:autodoc yes", ""},
		{"name shadows types", "nixos:name types", ""},
		{"name shadows lib", "nixos:name lib", ""},
		{"name shadows module argument", "nixos:name config", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDirectives("misuse.T", []string{tt.line})
			require.ErrorIs(t, err, errs.ErrAnnotation)

			var ae *AnnotationError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "misuse.T", ae.Path)
			assert.Equal(t, "//"+tt.line, ae.Annotation)
			assert.Equal(t, tt.suggestion, ae.Suggestion)
		})
	}
}

func TestParseTag(t *testing.T) {
	pairs, err := parseTag(`json:"a,omitempty"  nixos:"b" nixos_default:"\"x\""`)
	require.NoError(t, err)
	assert.Equal(t, []tagPair{
		{Key: "json", Value: "a,omitempty"},
		{Key: "nixos", Value: "b"},
		{Key: "nixos_default", Value: `"x"`},
	}, pairs)

	pairs, err = parseTag("")
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = parseTag(`:"x"`)
	require.Error(t, err)

	_, err = parseTag(`json:x`)
	require.Error(t, err)
}
