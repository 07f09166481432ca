package document

import "unicode/utf8"

// CharsPerToken is the fixed divisor used to approximate tokens.
const CharsPerToken = 4

// EstimateTokens returns ceil(len(text)/4).
func EstimateTokens(text string) int {
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// alignRune moves pos back to the start of the rune containing it so that
// slicing at pos never splits a multi-byte character.
func alignRune(text string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
