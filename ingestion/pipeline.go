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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/chunk"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
)

const defaultBatchSize = 32

// Pipeline splits documents into token windows, embeds them concurrently,
// and upserts the resulting points into the vector store.
type Pipeline struct {
	store     store.VectorStore
	embedder  ai.Embedder
	splitter  chunk.Splitter
	embedPool *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent embedding workers.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		if p.embedPool != nil {
			p.embedPool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embedPool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be at least 1, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(vectorStore store.VectorStore, embedder ai.Embedder, splitter chunk.Splitter, opts ...Option) (*Pipeline, error) {
	if vectorStore == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	embedPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     vectorStore,
		embedder:  embedder,
		splitter:  splitter,
		embedPool: embedPool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}

// ChunkError reports one chunk the store rejected.
type ChunkError struct {
	// Document is the name of the document the chunk belongs to.
	Document string

	// Id is the chunk's point ID.
	Id core.ID

	// Err is the store's rejection.
	Err error
}

// Report summarizes one indexing run.
type Report struct {
	// Documents is the number of documents processed.
	Documents int

	// Chunks is the number of chunks produced.
	Chunks int

	// Indexed is the number of chunks stored.
	Indexed int

	// Failed is the number of chunks the store rejected.
	Failed int

	// Errors lists each rejected chunk with its document.
	Errors []ChunkError
}

// chunkJob is one chunk awaiting embedding, tied back to its document.
type chunkJob struct {
	id       core.ID
	document *core.Document
	index    int
	text     string
}

// Index splits, embeds, and stores the documents.
//
// Embedding failures abort the run: they are transport problems, not
// document problems. Store rejections fail only the affected chunks,
// which the report attributes to their documents; everything already
// written stays written.
func (p *Pipeline) Index(ctx context.Context, docs []*core.Document) (*Report, error) {
	report := &Report{Documents: len(docs)}

	var jobs []chunkJob
	for _, doc := range docs {
		texts, err := p.splitter.Split(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("splitting document %q: %w", doc.Name, err)
		}
		for i, text := range texts {
			jobs = append(jobs, chunkJob{
				id:       core.ChunkID(doc.Name, i, text),
				document: doc,
				index:    i,
				text:     text,
			})
		}
	}
	report.Chunks = len(jobs)
	if len(jobs) == 0 {
		return report, nil
	}

	vectors, err := p.embedAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	if err := p.store.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return nil, err
	}

	points := make([]store.Point, len(jobs))
	byId := make(map[core.ID]string, len(jobs))
	for i, job := range jobs {
		payload := job.document.Metadata()
		payload["doc_id"] = strconv.FormatUint(uint64(job.document.Id), 10)
		payload["chunk"] = strconv.Itoa(job.index)
		points[i] = store.Point{
			Id:      job.id,
			Vector:  vectors[i],
			Text:    job.text,
			Payload: payload,
		}
		byId[job.id] = job.document.Name
	}

	result, err := p.store.Upsert(ctx, points)
	if err != nil {
		return nil, err
	}

	report.Indexed = result.Upserted
	report.Failed = len(result.Failed)
	for _, failure := range result.Failed {
		report.Errors = append(report.Errors, ChunkError{
			Document: byId[failure.Id],
			Id:       failure.Id,
			Err:      failure.Err,
		})
	}

	p.logger.Info("indexing run complete",
		"documents", report.Documents, "chunks", report.Chunks,
		"indexed", report.Indexed, "failed", report.Failed)
	return report, nil
}

// embedAll embeds the jobs in batches on the worker pool, preserving order.
func (p *Pipeline) embedAll(ctx context.Context, jobs []chunkJob) ([][]float32, error) {
	vectors := make([][]float32, len(jobs))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(jobs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]
		offset := start

		wg.Add(1)
		submitErr := p.embedPool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, job := range batch {
				texts[i] = job.text
			}

			embedded, err := p.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			copy(vectors[offset:], embedded)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embedding chunks: %w", firstErr)
	}
	return vectors, nil
}
