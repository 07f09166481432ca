package document

import (
	"strings"

	domainErrors "github.com/jbctechsolutions/doc2code/internal/domain/errors"
)

// Chunking defaults.
const (
	DefaultMaxTokensPerChunk = 4000
	DefaultOverlapTokens     = 200

	// breakLookahead is how far past a window boundary the splitter searches
	// for a paragraph or sentence break.
	breakLookahead = 100
)

// SplitIntoChunks partitions text into ordered chunks of roughly
// maxTokensPerChunk tokens. Consecutive chunks share overlapTokens worth of
// characters so the model keeps some context across parts.
//
// An overlap that would stop the window from advancing is clamped to
// maxTokensPerChunk-1. Use SplitIntoChunksE to reject it instead.
func SplitIntoChunks(text string, maxTokensPerChunk, overlapTokens int) []string {
	if maxTokensPerChunk <= 0 {
		maxTokensPerChunk = DefaultMaxTokensPerChunk
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	if overlapTokens >= maxTokensPerChunk {
		overlapTokens = maxTokensPerChunk - 1
	}
	return split(text, maxTokensPerChunk, overlapTokens)
}

// SplitIntoChunksE is SplitIntoChunks with argument validation.
func SplitIntoChunksE(text string, maxTokensPerChunk, overlapTokens int) ([]string, error) {
	if maxTokensPerChunk <= 0 {
		return nil, domainErrors.Validation(domainErrors.ErrInvalidTokenLimit)
	}
	if overlapTokens < 0 || overlapTokens >= maxTokensPerChunk {
		return nil, domainErrors.Validation(domainErrors.ErrInvalidOverlap)
	}
	return split(text, maxTokensPerChunk, overlapTokens), nil
}

func split(text string, maxTokens, overlapTokens int) []string {
	if text == "" {
		return []string{}
	}
	if EstimateTokens(text) <= maxTokens {
		return []string{text}
	}

	charsPerChunk := maxTokens * CharsPerToken
	overlapChars := overlapTokens * CharsPerToken

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + charsPerChunk
		if end >= len(text) {
			end = len(text)
		} else {
			end = extendToBreak(text, end)
		}
		end = alignRune(text, end)
		if end <= start {
			// Only reachable with a window smaller than one rune.
			end = len(text)
		}

		chunks = append(chunks, text[start:end])

		if end >= len(text) {
			break
		}

		next := alignRune(text, end-overlapChars)
		if next <= start {
			// The overlap would stall the walk; emit the remainder and stop.
			chunks = append(chunks, text[end:])
			break
		}
		start = next
	}

	return chunks
}

// extendToBreak pushes end forward to just past the nearest paragraph break,
// or failing that the nearest sentence break, inside the lookahead window.
func extendToBreak(text string, end int) int {
	searchEnd := min(end+breakLookahead, len(text))
	window := text[end:searchEnd]

	if i := strings.Index(window, "\n\n"); i != -1 {
		return end + i + 2
	}
	if i := strings.Index(window, ". "); i != -1 {
		return end + i + 1
	}
	return end
}
