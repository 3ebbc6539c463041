package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// freeLabels are display prices that mean the item is free.
var freeLabels = map[string]bool{
	"":     true,
	"free": true,
	"무료":   true,
}

// ParsePrice converts a display price such as "30,000원" into a unit amount.
// Non-digit characters are stripped. Free labels and prices with no digits yield 0.
func ParsePrice(display string) (int64, error) {
	trimmed := strings.TrimSpace(display)
	if freeLabels[strings.ToLower(trimmed)] {
		return 0, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, trimmed)
	if digits == "" {
		return 0, nil
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	return amount, nil
}
