// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used in Answerit.
//
// This package defines interfaces for text embeddings, query expansion, and
// grounded answer synthesis. It follows the dependency inversion principle:
// the ingestion and query pipelines depend on these abstractions rather than
// on concrete model clients.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - QueryExpander: Produces paraphrases of a user question
//   - Answerer: Synthesizes an answer from pooled retrieval context
//   - AIProvider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockExpander, ...) return concrete types to
// enable behavior injection and call-count assertions.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("https://api.openai.com"), ai.WithToken(token))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	variants, err := provider.QueryExpander().ExpandQuery(ctx, "how large is the sales team?")
package ai
