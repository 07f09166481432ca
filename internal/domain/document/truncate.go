package document

import (
	"fmt"

	domainErrors "github.com/jbctechsolutions/doc2code/internal/domain/errors"
)

// DefaultReserveTokens is held back from a model's limit for the system
// prompt and other overhead.
const DefaultReserveTokens = 1000

// TruncationNotice is appended to documentation that was cut to fit.
const TruncationNotice = "\n\n[NOTE: This documentation has been truncated due to token limits. " +
	"Please consider splitting your documentation into smaller chunks for complete processing.]"

// TruncateToLimit returns text cut to maxTokens-reserveTokens tokens, with
// TruncationNotice appended when anything was removed.
func TruncateToLimit(text string, maxTokens, reserveTokens int) (string, error) {
	available := maxTokens - reserveTokens
	if available <= 0 {
		err := domainErrors.NewError(domainErrors.CodeValidation,
			fmt.Sprintf("Invalid token limit: %d with reserve of %d", maxTokens, reserveTokens),
			domainErrors.ErrInvalidTokenLimit)
		return "", domainErrors.WithContext(err, "max_tokens", maxTokens)
	}

	if EstimateTokens(text) <= available {
		return text, nil
	}

	cut := alignRune(text, available*CharsPerToken)
	return text[:cut] + TruncationNotice, nil
}
