package service

import (
	"strings"
	"unicode"
)

// compareNatural orders strings so that embedded digit runs compare by
// numeric value and the remaining text compares case-insensitively:
// "R2" < "R10" and "r3" == "R3".
func compareNatural(a, b string) int {
	ca, cb := naturalChunks(a), naturalChunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigits(ca[i], cb[i])
		} else {
			c = strings.Compare(strings.ToLower(ca[i]), strings.ToLower(cb[i]))
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

// naturalChunks splits s into alternating text and digit runs, always
// starting and ending with a (possibly empty) text run.
func naturalChunks(s string) []string {
	chunks := []string{}
	start := 0
	inDigits := false
	for i, r := range s {
		isDigit := r < unicode.MaxASCII && unicode.IsDigit(r)
		if isDigit != inDigits {
			chunks = append(chunks, s[start:i])
			start = i
			inDigits = isDigit
		}
	}
	chunks = append(chunks, s[start:])
	if inDigits {
		chunks = append(chunks, "")
	}
	return chunks
}

// compareDigits compares two ASCII digit runs by value without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
