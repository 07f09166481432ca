// Package prompt builds the messages sent to providers during SDK generation.
package prompt

import (
	"fmt"
	"strings"
)

// Generation defaults shared by every provider.
const (
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 4000
)

// System is the instruction that frames the model as an SDK generator.
func System(language string) string {
	return fmt.Sprintf("You are an expert SDK generator. Your task is to convert API documentation "+
		"into a well-structured, production-ready SDK in %s.\n"+
		"Include proper error handling, documentation, and follow best practices for the language.\n"+
		"The SDK should be easy to use and understand.", language)
}

// User embeds documentation in the generation request.
func User(language, documentation string) string {
	return fmt.Sprintf("Here is the API documentation. Please generate a complete SDK in %s that wraps this API:\n\n%s",
		language, documentation)
}

// FirstChunk frames part 1 of a multi-part document. The model builds the
// SDK skeleton from it.
func FirstChunk(total int, chunk string) string {
	return fmt.Sprintf("This is part 1 of %d of the API documentation. "+
		"Build the initial SDK structure (client setup, configuration, authentication, shared types and error handling) "+
		"and implement the endpoints described in this part.\n\n%s", total, chunk)
}

// NextChunk frames part index (1-based) of a multi-part document.
func NextChunk(index, total int, chunk string) string {
	return fmt.Sprintf("This is part %d of %d of the API documentation. "+
		"The SDK structure has already been created from earlier parts. "+
		"Implement only the additional endpoints and types described in this part; "+
		"do not repeat the existing client structure.\n\n%s", index, total, chunk)
}

// Combine asks the model to merge partial SDKs into one.
func Combine(parts []string) string {
	var b strings.Builder
	b.WriteString("The following are SDK fragments generated from consecutive parts of the same API documentation. ")
	b.WriteString("Merge them into a single coherent SDK: keep one client structure, remove duplicated code, ")
	b.WriteString("and make sure every endpoint from every part is included.\n")
	for i, p := range parts {
		fmt.Fprintf(&b, "\n--- Part %d ---\n%s\n", i+1, p)
	}
	return b.String()
}
