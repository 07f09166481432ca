// Package document holds the text pipeline that prepares API documentation
// for a provider: token estimation, minification, chunking and truncation.
//
// Token counts are a heuristic of four bytes per token. Nothing here calls a
// real tokenizer.
package document
