package escaperoom

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var errMalformedSolution = errors.New("solution must be a number or a string")

// Evaluate reports whether guess answers a puzzle whose stored solution is
// the raw JSON value solution.
//
// Numeric solutions accept digits or spelled-out numbers and must match
// exactly. Text solutions match if any of these agree: the raw strings;
// both sides with all whitespace removed and lower-cased; both sides with
// trailing punctuation trimmed and lower-cased.
func Evaluate(solution json.RawMessage, guess string) (bool, error) {
	dec := json.NewDecoder(bytes.NewReader(solution))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return false, errMalformedSolution
	}

	switch sol := v.(type) {
	case json.Number:
		return matchNumber(sol, guess), nil
	case string:
		return matchText(sol, guess), nil
	default:
		return false, errMalformedSolution
	}
}

func matchNumber(solution json.Number, guess string) bool {
	n, ok := guessNumber(guess)
	if !ok {
		return false
	}
	if want, err := solution.Int64(); err == nil {
		return n == want
	}
	want, err := solution.Float64()
	return err == nil && float64(n) == want
}

// guessNumber reads an integer from a guess written in digits or words.
func guessNumber(guess string) (int64, bool) {
	cleaned := strings.TrimSpace(trimTrailingNonAlnum(guess))
	if cleaned == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return n, true
	}
	return wordsToNumber(cleaned)
}

func matchText(solution, guess string) bool {
	if guess == solution {
		return true
	}
	if a, b := collapse(guess), collapse(solution); a != "" && a == b {
		return true
	}
	a := strings.ToLower(trimTrailingPunct(guess))
	b := strings.ToLower(trimTrailingPunct(solution))
	return a != "" && a == b
}

// collapse removes all whitespace and lower-cases s.
func collapse(s string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// trimTrailingPunct drops trailing punctuation and underscores. Whitespace
// and symbols such as "+" or "$" stop the trim.
func trimTrailingPunct(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || r == '_'
	})
}

// trimTrailingNonAlnum drops every trailing rune that is neither a letter
// nor a digit. Only numeric guesses use it.
func trimTrailingNonAlnum(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
