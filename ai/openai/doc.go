// Package openai implements the ai service interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// The package provides three services sharing a single ai.Config:
//
//   - Embedder: text embeddings through the embeddings endpoint
//   - Expander: question paraphrasing through chat completions
//   - Answerer: grounded answer synthesis through chat completions
//
// Prompt templates live in prompts.go and are rendered through a named
// placeholder substitution that rejects unbound or unused bindings.
package openai
