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


package query

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
)

// Engine answers questions by fanning retrieval out over LLM-generated
// paraphrases of the question and grounding the answer in the union of
// the retrieved passages.
type Engine struct {
	store      store.VectorStore
	embedder   ai.Embedder
	expander   ai.QueryExpander
	answerer   ai.Answerer
	searchPool *ants.Pool
	topK       int
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets how many passages each search variant retrieves.
// Default is store.DefaultTopK.
func WithTopK(topK int) Option {
	return func(e *Engine) error {
		if topK < 1 {
			return fmt.Errorf("topK must be at least 1, got %d", topK)
		}
		e.topK = topK
		return nil
	}
}

// WithPoolSize sets the number of concurrent search workers.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		if e.searchPool != nil {
			e.searchPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.searchPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a query engine.
func NewEngine(vectorStore store.VectorStore, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if vectorStore == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	searchPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:      vectorStore,
		embedder:   provider.Embedder(),
		expander:   provider.QueryExpander(),
		answerer:   provider.Answerer(),
		searchPool: searchPool,
		topK:       store.DefaultTopK,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// Release releases the worker pool.
// The engine should not be used after calling Release.
func (e *Engine) Release() {
	if e.searchPool != nil {
		e.searchPool.Release()
	}
}

// Ask answers the question from the indexed corpus.
func (e *Engine) Ask(ctx context.Context, question string) (*core.Answer, error) {
	return e.AskWithMonitor(ctx, question, nil)
}

// AskWithMonitor answers the question with monitoring.
// The monitor receives callbacks at each stage of the process.
//
// The answer is built in three stages: the question is expanded into
// paraphrases, every variant is searched concurrently, and the merged
// passages ground a single completion. Expansion failures degrade to
// searching the original question alone; search and completion failures
// surface.
func (e *Engine) AskWithMonitor(ctx context.Context, question string, monitor QueryMonitor) (*core.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(question)

	// 1. Expand the question into paraphrases.
	paraphrases, err := e.expander.ExpandQuery(ctx, question)
	if err != nil {
		// A failed expansion narrows the search, it doesn't sink it.
		e.logger.Warn("query expansion failed, searching original question only", "err", err)
		paraphrases = nil
	}
	queries := append([]string{question}, paraphrases...)
	monitor.AfterExpansion(queries)

	// 2. Search every variant concurrently.
	resultSets, err := e.searchAll(ctx, queries)
	if err != nil {
		return nil, err
	}

	// 3. Merge in query order so results are deterministic regardless of
	// which search finished first. The original question's passages come
	// first; a passage surfaced by multiple variants keeps its first slot.
	seen := make(map[core.ID]bool)
	var merged []*core.Passage
	for i, passages := range resultSets {
		monitor.AfterSearch(queries[i], passages)
		for _, passage := range passages {
			identity := passage.Identity()
			if seen[identity] {
				continue
			}
			seen[identity] = true
			merged = append(merged, passage)
		}
	}
	monitor.AfterMerge(merged)

	// 4. Ground the completion in the merged passages.
	text, err := e.answerer.Answer(ctx, question, buildContext(merged))
	if err != nil {
		return nil, err
	}

	answer := &core.Answer{
		Text:        text,
		Paraphrases: paraphrases,
		Passages:    merged,
	}
	monitor.Finish(answer)
	return answer, nil
}

// searchAll embeds and searches each query on the worker pool.
// Results come back indexed by query so callers can merge deterministically.
func (e *Engine) searchAll(ctx context.Context, queries []string) ([][]*core.Passage, error) {
	resultSets := make([][]*core.Passage, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		submitErr := e.searchPool.Submit(func() {
			defer wg.Done()

			vector, err := e.embedder.EmbedText(ctx, q)
			if err != nil {
				errs[i] = fmt.Errorf("embedding query %q: %w", q, err)
				return
			}
			passages, err := e.store.Search(ctx, vector, e.topK)
			if err != nil {
				errs[i] = fmt.Errorf("searching query %q: %w", q, err)
				return
			}
			resultSets[i] = passages
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return resultSets, nil
}

// buildContext renders the passages as the grounding block for the answerer.
// Each passage is labeled with its source document.
func buildContext(passages []*core.Passage) string {
	blocks := make([]string, len(passages))
	for i, passage := range passages {
		blocks[i] = fmt.Sprintf("SOURCE: %s\n%s", passage.Source(), passage.Text)
	}
	return strings.Join(blocks, "\n\n")
}
