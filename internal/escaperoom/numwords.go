package escaperoom

import (
	"math"
	"strconv"
	"strings"
)

var smallNumbers = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensNumbers = map[string]int64{
	"twenty": 20, "thirty": 30, "forty": 40, "fourty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleNumbers = map[string]int64{
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
	"trillion": 1_000_000_000_000,
}

// wordsToNumber converts English number words such as "forty-two",
// "one hundred and five" or "minus three" into an integer.
func wordsToNumber(s string) (int64, bool) {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == '\t' || r == '\n'
	})
	if len(tokens) == 0 {
		return 0, false
	}

	negative := false
	if tokens[0] == "minus" || tokens[0] == "negative" {
		negative = true
		tokens = tokens[1:]
	}
	if len(tokens) == 1 && tokens[0] == "zero" {
		return 0, true
	}

	var total, group int64
	lastScale := int64(math.MaxInt64)
	words := 0

	for i, tok := range tokens {
		if v, ok := smallNumbers[tok]; ok && v > 0 {
			// one unit per position: "twenty one" but not "five six"
			rest := group % 100
			if rest != 0 && (rest < 20 || rest%10 != 0 || v >= 10) {
				return 0, false
			}
			if group > math.MaxInt64-v {
				return 0, false
			}
			group += v
			words++
			continue
		}
		if v, ok := tensNumbers[tok]; ok {
			if group%100 != 0 || group > math.MaxInt64-v {
				return 0, false
			}
			group += v
			words++
			continue
		}
		if v, ok := scaleNumbers[tok]; ok {
			if group == 0 {
				group = 1
			}
			if v >= lastScale || group > math.MaxInt64/v {
				return 0, false
			}
			total += group * v
			group = 0
			lastScale = v
			words++
			continue
		}

		switch {
		case tok == "hundred":
			if group == 0 {
				group = 1
			}
			if group >= 100 {
				return 0, false
			}
			group *= 100
			words++
		case tok == "and":
			if words == 0 || i == len(tokens)-1 {
				return 0, false
			}
		case tok == "a" || tok == "an":
			if i == len(tokens)-1 || !isMultiplier(tokens[i+1]) || group != 0 {
				return 0, false
			}
		default:
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil || n < 0 || group != 0 {
				return 0, false
			}
			group = n
			words++
		}
	}

	if words == 0 || group > math.MaxInt64-total {
		return 0, false
	}
	n := total + group
	if negative {
		n = -n
	}
	return n, true
}

func isMultiplier(tok string) bool {
	if tok == "hundred" {
		return true
	}
	_, ok := scaleNumbers[tok]
	return ok
}
