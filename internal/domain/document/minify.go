package document

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	lineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	punctuationRe  = regexp.MustCompile(`\s*([.,;:()\[\]{}])\s*`)
)

// Minify strips comments and redundant whitespace from text to reduce its
// token footprint. When isJSON is set and text is valid JSON the compact
// encoding is returned instead; invalid JSON falls through to the generic
// path.
//
// The generic path is lossy: prose containing "//" (URLs, for one) loses the
// rest of the line.
func Minify(text string, isJSON bool) string {
	if text == "" {
		return text
	}

	if isJSON {
		if compact, ok := compactJSON(text); ok {
			return compact
		}
	}

	out := lineCommentRe.ReplaceAllString(text, "")
	out = blockCommentRe.ReplaceAllString(out, "")
	out = whitespaceRe.ReplaceAllString(out, " ")
	out = punctuationRe.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// IsJSON reports whether text parses as a single JSON value.
func IsJSON(text string) bool {
	return json.Valid([]byte(text))
}

func compactJSON(text string) (string, bool) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return "", false
	}
	return buf.String(), true
}
