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


package answerit

import (
	"errors"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/chunk"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/query"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/poiesic/answerit/store"
)

// ErrVectorStoreRequired is returned when a System is created without a store.
var ErrVectorStoreRequired = errors.New("vector store required")

// System wires the document cache, vector store, AI provider, and chunker
// into one handle the CLI and embedding applications use.
type System struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	store    store.VectorStore
	provider ai.AIProvider
	splitter chunk.Splitter
	logger   *slog.Logger

	encoding      string
	maxTokens     int
	overlapTokens int
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig      *ai.Config
	provider      ai.AIProvider
	splitter      chunk.Splitter
	encoding      string
	maxTokens     int
	overlapTokens int
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the
// OpenAI-compatible default. The System takes ownership and closes it.
func WithProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithSplitter injects a pre-built splitter, bypassing the tiktoken default.
func WithSplitter(splitter chunk.Splitter) SystemOption {
	return func(o *systemOptions) {
		o.splitter = splitter
	}
}

// WithChunkWindow sets the token window and overlap for chunking.
func WithChunkWindow(maxTokens, overlapTokens int) SystemOption {
	return func(o *systemOptions) {
		o.maxTokens = maxTokens
		o.overlapTokens = overlapTokens
	}
}

// WithEncoding sets the tiktoken encoding used for chunking.
func WithEncoding(encoding string) SystemOption {
	return func(o *systemOptions) {
		o.encoding = encoding
	}
}

// NewSystem opens the document cache at cachePath and wires it to the given
// vector store. Pass an empty cachePath to run without a cache (the fetch
// command then has nowhere to write, but indexing pre-loaded documents and
// querying still work).
func NewSystem(cachePath string, vectorStore store.VectorStore, opts ...SystemOption) (*System, error) {
	if vectorStore == nil {
		return nil, ErrVectorStoreRequired
	}

	options := &systemOptions{
		aiConfig:      ai.DefaultConfig(),
		encoding:      chunk.DefaultEncoding,
		maxTokens:     chunk.DefaultMaxTokens,
		overlapTokens: chunk.DefaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(options)
	}

	var backend *badger.Backend
	var docRepo storage.DocumentRepository
	var err error
	if cachePath != "" {
		backend, err = badger.OpenBackend(cachePath, false)
		if err != nil {
			return nil, err
		}
		docRepo, err = badger.NewDocumentRepository(backend)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			if docRepo != nil {
				docRepo.Close()
			}
			if backend != nil {
				backend.Close()
			}
			return nil, err
		}
	}

	return &System{
		backend:       backend,
		docRepo:       docRepo,
		store:         vectorStore,
		provider:      provider,
		splitter:      options.splitter,
		logger:        slog.Default(),
		encoding:      options.encoding,
		maxTokens:     options.maxTokens,
		overlapTokens: options.overlapTokens,
	}, nil
}

// Close releases every component. Errors are logged; the first storage
// error is returned.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if s.docRepo != nil {
		if err := s.docRepo.Close(); err != nil {
			s.logger.Error("error closing document repository", "err", err)
			return err
		}
	}
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing cache backend", "err", err)
			return err
		}
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the document cache, or nil when the system
// was opened without one.
func (s *System) DocumentRepository() storage.DocumentRepository {
	return s.docRepo
}

// VectorStore returns the wired vector store.
func (s *System) VectorStore() store.VectorStore {
	return s.store
}

// Provider returns the AI provider.
func (s *System) Provider() ai.AIProvider {
	return s.provider
}

// NewLoader returns a document loader for fetch operations.
func (s *System) NewLoader() *ingestion.Loader {
	return ingestion.NewLoader()
}

// NewIngestionPipeline creates an indexing pipeline over the wired store.
// The splitter is built on first use so query-only systems never load a
// tiktoken encoding.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if s.splitter == nil {
		tokenizer, err := chunk.NewTiktokenTokenizer(s.encoding)
		if err != nil {
			return nil, err
		}
		splitter, err := chunk.NewTokenSplitter(tokenizer, s.maxTokens, s.overlapTokens)
		if err != nil {
			return nil, err
		}
		s.splitter = splitter
	}
	return ingestion.NewPipeline(s.store, s.provider.Embedder(), s.splitter, opts...)
}

// NewQueryEngine creates a query engine over the wired store.
func (s *System) NewQueryEngine(opts ...query.Option) (*query.Engine, error) {
	return query.NewEngine(s.store, s.provider, opts...)
}
