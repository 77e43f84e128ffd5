// Package llm invokes language models on behalf of the pipeline.
//
// Models are grouped into tiers. Each call names a tier; the client estimates
// the prompt size with a tokenizer and picks the smallest variant of the tier
// that fits, falling back to the largest one when nothing does. Failed calls
// are retried with a linearly growing wait, and the usage of every successful
// call is recorded in a usage.Ledger.
//
// The OpenAI type implements both Completer and Embedder on top of
// github.com/openai/openai-go. Tests substitute their own implementations.
package llm
