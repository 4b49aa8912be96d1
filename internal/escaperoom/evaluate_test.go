package escaperoom

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNumeric(t *testing.T) {
	solution := json.RawMessage(`42`)

	tests := []struct {
		guess string
		want  bool
	}{
		{"42", true},
		{"42!", true},
		{" 42 ", true},
		{"forty two.", true},
		{"Forty-Two", true},
		{"forty two___", true},
		{"43", false},
		{"forty three", false},
		{"41.9", false},
		{"42 apples", false},
		{"", false},
		{"...", false},
	}
	for _, tt := range tests {
		t.Run(tt.guess, func(t *testing.T) {
			got, err := Evaluate(solution, tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateNumericForms(t *testing.T) {
	ok, err := Evaluate(json.RawMessage(`-3`), "minus three")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(json.RawMessage(`100.0`), "one hundred")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(json.RawMessage(`2.5`), "2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Evaluate(json.RawMessage(`0`), "zero")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateTextTiers(t *testing.T) {
	solution := json.RawMessage(`"Blue Whale"`)

	tests := []struct {
		name  string
		guess string
		want  bool
	}{
		{"exact", "Blue Whale", true},
		{"case only", "blue whale", true},
		{"extra inner space", "blue  whale", true},
		{"no space", "bluewhale", true},
		{"trailing period", "Blue Whale.", true},
		{"trailing punctuation and case", "blue whale?!", true},
		{"punctuation without space", "BlueWhale!", false},
		{"different answer", "Grey Whale", false},
		{"leading punctuation", "!Blue Whale", false},
		{"space before punctuation", "blue whale !", false},
		{"trailing symbol", "blue whale $", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(solution, tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextTiersIndependently(t *testing.T) {
	// "blue  whale": fails tier 1, passes tier 2
	assert.NotEqual(t, "Blue Whale", "blue  whale")
	assert.Equal(t, collapse("Blue Whale"), collapse("blue  whale"))

	// "Blue Whale.": fails tiers 1 and 2, passes tier 3
	assert.NotEqual(t, collapse("Blue Whale"), collapse("Blue Whale."))
	assert.Equal(t, "blue whale", strings.ToLower(trimTrailingPunct("Blue Whale.")))
}

func TestEvaluateTextSolutionOfPunctuation(t *testing.T) {
	ok, err := Evaluate(json.RawMessage(`"?"`), "!")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Evaluate(json.RawMessage(`"?"`), "?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateNumericTextSolution(t *testing.T) {
	// a solution stored as a string is compared as text
	ok, err := Evaluate(json.RawMessage(`"42"`), "forty two")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Evaluate(json.RawMessage(`"42"`), "42.")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateMalformedSolution(t *testing.T) {
	for _, raw := range []string{`true`, `{"a":1}`, `[1]`, `null`, `{bad`} {
		_, err := Evaluate(json.RawMessage(raw), "anything")
		assert.ErrorIs(t, err, errMalformedSolution, "solution %s", raw)
	}
}

func TestTrimTrailingPunct(t *testing.T) {
	assert.Equal(t, "abc", trimTrailingPunct("abc.,!?_"))
	assert.Equal(t, "abc! ", trimTrailingPunct("abc! "))
	assert.Equal(t, "C++", trimTrailingPunct("C++"))
	assert.Equal(t, "a.b", trimTrailingPunct("a.b"))
	assert.Equal(t, "", trimTrailingPunct("___"))
	assert.Equal(t, "café", trimTrailingPunct("café!"))
}

func TestTrimTrailingNonAlnum(t *testing.T) {
	assert.Equal(t, "42", trimTrailingNonAlnum("42 !$"))
	assert.Equal(t, "forty two", trimTrailingNonAlnum("forty two."))
}

func TestEvaluateTextKeepsSymbols(t *testing.T) {
	solution := json.RawMessage(`"C++"`)

	for guess, want := range map[string]bool{
		"C++":  true,
		"c++":  true,
		"c++!": true,
		"c":    false,
		"C+":   false,
	} {
		got, err := Evaluate(solution, guess)
		require.NoError(t, err)
		assert.Equal(t, want, got, "guess %q", guess)
	}
}
