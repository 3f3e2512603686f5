// Package knum parses the compact counter strings Telegram renders on its
// web preview pages ("26.8K", "1.2M", "12 345") into exact integers.
package knum

import (
	"regexp"
	"strconv"
	"strings"
)

var compactRegex = regexp.MustCompile(`([0-9][0-9,.]*)([KkMm]?)$`)
var digitRegex = regexp.MustCompile(`[0-9]+`)
var nonNumericRegex = regexp.MustCompile(`[^0-9.]`)

var spaceReplacer = strings.NewReplacer(
	" ", "", // thin space
	" ", "", // no-break space
	" ", "",
)

// Parse never fails, any fragment it cannot make sense of degrades to 0.
// Magnitude suffixes are applied to the mantissa as a float and the result
// is truncated toward zero, not rounded.
func Parse(text string) int {
	if text == "" {
		return 0
	}
	text = spaceReplacer.Replace(text)

	groups := compactRegex.FindStringSubmatch(text)
	if groups == nil {
		digits := strings.Join(digitRegex.FindAllString(text, -1), "")
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return n
	}

	mantissa := strings.ReplaceAll(groups[1], ",", "")
	value, err := strconv.ParseFloat(mantissa, 64)
	if err != nil {
		value, err = strconv.ParseFloat(nonNumericRegex.ReplaceAllString(mantissa, ""), 64)
		if err != nil {
			return 0
		}
	}

	switch groups[2] {
	case "K", "k":
		value *= 1_000
	case "M", "m":
		value *= 1_000_000
	}
	return int(value)
}
