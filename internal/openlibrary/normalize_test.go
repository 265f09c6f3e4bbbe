package openlibrary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractISBN13(t *testing.T) {
	tests := []struct {
		name     string
		codes    []string
		expected string
	}{
		{"prefers 13-char code", []string{"0141439518", "9780141439518"}, "9780141439518"},
		{"falls back to 10-char code", []string{"0141439518"}, "0141439518"},
		{"empty list", []string{}, ""},
		{"nil list", nil, ""},
		{"skips blank entries", []string{"  ", "0141439518"}, "0141439518"},
		{"all blank", []string{"", "   "}, ""},
		{"13-char wins regardless of order", []string{"9780141439518", "0141439518"}, "9780141439518"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractISBN13(tt.codes))
		})
	}
}

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain string", `"A fine novel."`, "A fine novel."},
		{"typed value object", `{"type":"/type/text","value":"A fine novel."}`, "A fine novel."},
		{"null", `null`, ""},
		{"number", `42`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseDescription(json.RawMessage(tt.raw)))
		})
	}

	assert.Empty(t, parseDescription(nil))
}

func TestKeyRefShapes(t *testing.T) {
	var refs []keyRef
	raw := `["/authors/OL1A", {"key":"/authors/OL2A"}, 42]`
	require.NoError(t, json.Unmarshal([]byte(raw), &refs))
	require.Len(t, refs, 3)
	assert.Equal(t, "/authors/OL1A", refs[0].Key)
	assert.Equal(t, "/authors/OL2A", refs[1].Key)
	assert.Empty(t, refs[2].Key)
}

func TestFirstRefKey(t *testing.T) {
	refs := []keyRef{{Key: "  "}, {Key: ""}, {Key: "/works/OL1W"}, {Key: "/works/OL2W"}}
	assert.Equal(t, "/works/OL1W", firstRefKey(refs))
	assert.Empty(t, firstRefKey(nil))
}

func TestMergeUnique(t *testing.T) {
	merged := mergeUnique(
		[]string{"Fiction", "Classics"},
		[]string{"Classics", "England"},
		[]string{"Fiction", "19th century"},
	)
	assert.Equal(t, []string{"Fiction", "Classics", "England", "19th century"}, merged)
}

func TestNormalizeStrings(t *testing.T) {
	assert.Equal(t, []string{"Fiction", "Drama"}, normalizeStrings([]string{" Fiction ", "", "Drama", "  "}))
	assert.Empty(t, normalizeStrings(nil))
}

func TestTitleOrDefault(t *testing.T) {
	assert.Equal(t, "Dune", titleOrDefault("Dune"))
	assert.Equal(t, "Untitled", titleOrDefault(""))
	assert.Equal(t, "Untitled", titleOrDefault("   "))
}
