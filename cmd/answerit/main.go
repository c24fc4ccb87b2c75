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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/chunk"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/query"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/poiesic/answerit/store"
	"github.com/poiesic/answerit/store/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "answerit",
		Usage: "Question answering over your own document sets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Download a document set into the local cache",
				Action: fetchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Document set URL or file path (JSON array)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the document cache directory",
						Required: true,
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Chunk, embed, and index the cached documents",
				Action: indexCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the document cache directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum tokens per chunk",
						Value: chunk.DefaultMaxTokens,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlapping tokens between consecutive chunks",
						Value: chunk.DefaultOverlapTokens,
					},
					&cli.StringFlag{
						Name:  "encoding",
						Usage: "Tiktoken encoding used for chunking",
						Value: chunk.DefaultEncoding,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per request",
						Value: 32,
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						EnvVars: []string{"ANSWERIT_EMBEDDING_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"ANSWERIT_EMBEDDING_MODEL"},
						Value:   "embeddinggemma",
					},
				}, qdrantFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the indexed documents",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Passages to retrieve per question variant",
						Value: store.DefaultTopK,
					},
					&cli.IntFlag{
						Name:  "paraphrases",
						Usage: "Question paraphrases to generate",
						Value: 3,
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "Print the retrieved passages after the answer",
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL",
						EnvVars: []string{"ANSWERIT_EMBEDDING_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"ANSWERIT_EMBEDDING_MODEL"},
						Value:   "embeddinggemma",
					},
					&cli.StringFlag{
						Name:    "chat-host",
						Usage:   "Chat completion service host URL",
						EnvVars: []string{"ANSWERIT_CHAT_HOST"},
						Value:   "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:    "chat-model",
						Usage:   "Chat completion model name",
						EnvVars: []string{"ANSWERIT_CHAT_MODEL"},
						Value:   "qwen2.5:3b",
					},
				}, qdrantFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// qdrantFlags are shared by every command that talks to the vector store.
func qdrantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "qdrant-url",
			Usage:   "Qdrant cluster endpoint",
			EnvVars: []string{"ANSWERIT_QDRANT_URL"},
			Value:   "http://localhost:6333",
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant API key",
			EnvVars: []string{"ANSWERIT_QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Aliases: []string{"c"},
			Usage:   "Qdrant collection name",
			Value:   "answerit",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token for the embedding and chat services",
			EnvVars: []string{"ANSWERIT_LLM_TOKEN"},
		},
	}
}

func fetchCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open document cache: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	result, err := ingestion.NewLoader().Load(ctx, c.String("source"))
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if _, err := repo.PutDocuments(ctx, result.Documents...); err != nil {
		return fmt.Errorf("failed to cache documents: %w", err)
	}

	for _, rejection := range result.Rejected {
		fmt.Fprintf(os.Stderr, "rejected record %d (%s): %v\n", rejection.Index, rejection.Name, rejection.Err)
	}
	fmt.Fprintf(os.Stderr, "cached %d documents, rejected %d\n", len(result.Documents), len(result.Rejected))
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	vectorStore, err := newQdrantStore(c)
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(c.String("token")),
	)

	system, err := answerit.NewSystem(c.String("db"), vectorStore,
		answerit.WithAIConfig(aiConfig),
		answerit.WithChunkWindow(c.Int("chunk-size"), c.Int("chunk-overlap")),
		answerit.WithEncoding(c.String("encoding")),
	)
	if err != nil {
		vectorStore.Close()
		return fmt.Errorf("failed to wire system: %w", err)
	}
	defer system.Close()

	docs, err := system.DocumentRepository().ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cached documents: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("document cache is empty, run fetch first")
	}

	pipeline, err := system.NewIngestionPipeline(ingestion.WithBatchSize(c.Int("batch-size")))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Index(ctx, docs)
	if err != nil {
		return fmt.Errorf("indexing aborted: %w", err)
	}

	// Per-document failures are reported but don't fail the run; the rest
	// of the corpus is indexed and searchable.
	for _, chunkErr := range report.Errors {
		fmt.Fprintf(os.Stderr, "failed to index chunk of %q: %v\n", chunkErr.Document, chunkErr.Err)
	}
	fmt.Fprintf(os.Stderr, "indexed %d/%d chunks from %d documents\n",
		report.Indexed, report.Chunks, report.Documents)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: answerit ask <question>")
	}

	vectorStore, err := newQdrantStore(c)
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithToken(c.String("token")),
		ai.WithParaphrases(c.Int("paraphrases")),
	)

	system, err := answerit.NewSystem("", vectorStore, answerit.WithAIConfig(aiConfig))
	if err != nil {
		vectorStore.Close()
		return fmt.Errorf("failed to wire system: %w", err)
	}
	defer system.Close()

	engine, err := system.NewQueryEngine(query.WithTopK(c.Int("top-k")))
	if err != nil {
		return err
	}
	defer engine.Release()

	answer, err := engine.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer.Text)

	if c.Bool("show-sources") {
		fmt.Println()
		for _, paraphrase := range answer.Paraphrases {
			fmt.Printf("variant: %s\n", paraphrase)
		}
		for _, passage := range answer.Passages {
			fmt.Printf("--- %s (score %.3f)\n%s\n", passage.Source(), passage.Score, passage.Text)
		}
	}
	return nil
}

func newQdrantStore(c *cli.Context) (store.VectorStore, error) {
	vectorStore, err := qdrant.NewStore(qdrant.Config{
		URL:        c.String("qdrant-url"),
		APIKey:     c.String("qdrant-api-key"),
		Collection: c.String("collection"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	return vectorStore, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
