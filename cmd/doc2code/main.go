// doc2code CLI entry point
//
// doc2code turns API documentation into client SDKs with OpenAI, OpenRouter
// or Groq models, either through its HTTP API (doc2code serve) or directly
// from the terminal (doc2code generate).
package main

import "github.com/jbctechsolutions/doc2code/internal/presentation/cli/commands"

func main() {
	commands.Execute()
}
