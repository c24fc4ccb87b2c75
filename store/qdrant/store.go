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


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
)

const defaultTimeout = 15 * time.Second

// Config holds connection settings for a Qdrant collection.
type Config struct {
	// URL is the cluster endpoint, e.g. "http://localhost:6333".
	URL string

	// APIKey is sent in the api-key header when non-empty.
	APIKey string

	// Collection is the collection name all operations target.
	Collection string

	// Timeout bounds each HTTP request. Default: 15s.
	Timeout time.Duration
}

// Store is a REST client for one Qdrant collection.
// It assumes cosine distance and numeric point IDs.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

var _ store.VectorStore = (*Store)(nil)

// newStore is an internal constructor that returns the concrete type.
func newStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, store.ErrURLRequired
	}
	if cfg.Collection == "" {
		return nil, store.ErrCollectionRequired
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Store{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "qdrant-store", "collection", cfg.Collection),
	}, nil
}

// NewStore creates a Qdrant-backed vector store.
//
// Returns store.VectorStore interface to enforce abstraction.
func NewStore(cfg Config) (store.VectorStore, error) {
	return newStore(cfg)
}

// EnsureCollection creates the collection with cosine distance if missing.
// Qdrant returns 200 for an existing collection with the same schema.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return store.ErrInvalidDimension
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", s.collection), body, nil)
}

type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type upsertPoint struct {
	Id      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert stores the points, waiting for the write to be applied.
// If the whole batch is rejected with a client error, the points are
// re-submitted one at a time so a single bad payload fails only its own
// document. Failed points are reported in the result, never retried, and
// points already written stay written.
func (s *Store) Upsert(ctx context.Context, points []store.Point) (*store.UpsertResult, error) {
	if len(points) == 0 {
		return &store.UpsertResult{}, nil
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", s.collection)

	err := s.do(ctx, http.MethodPut, path, upsertRequest{Points: toUpsertPoints(points)}, nil)
	if err == nil {
		return &store.UpsertResult{Upserted: len(points)}, nil
	}

	statusErr, ok := err.(*statusError)
	if !ok || !statusErr.isolatable() {
		// Transport, auth, routing, or server failure: the whole request is
		// broken the same way, nothing to isolate.
		return nil, err
	}

	s.logger.Warn("batch upsert rejected, isolating failed points",
		"points", len(points), "err", err)

	result := &store.UpsertResult{}
	for _, point := range points {
		req := upsertRequest{Points: toUpsertPoints([]store.Point{point})}
		if err := s.do(ctx, http.MethodPut, path, req, nil); err != nil {
			result.Failed = append(result.Failed, store.PointError{Id: point.Id, Err: err})
			continue
		}
		result.Upserted++
	}
	return result, nil
}

func toUpsertPoints(points []store.Point) []upsertPoint {
	out := make([]upsertPoint, len(points))
	for i, p := range points {
		payload := make(map[string]any, len(p.Payload)+1)
		for k, v := range p.Payload {
			payload[k] = v
		}
		payload["text"] = p.Text
		out[i] = upsertPoint{
			Id:      uint64(p.Id),
			Vector:  p.Vector,
			Payload: payload,
		}
	}
	return out
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Id      uint64         `json:"id"`
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the topK most similar passages.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]*core.Passage, error) {
	if topK <= 0 {
		topK = store.DefaultTopK
	}

	req := searchRequest{
		Vector:      vector,
		Limit:       topK,
		WithPayload: true,
	}

	var resp searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", s.collection)
	if err := s.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}

	passages := make([]*core.Passage, 0, len(resp.Result))
	for _, hit := range resp.Result {
		passage := &core.Passage{
			Id:       core.ID(hit.Id),
			Score:    hit.Score,
			Metadata: make(map[string]string, len(hit.Payload)),
		}
		for k, v := range hit.Payload {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "text" {
				passage.Text = str
				continue
			}
			passage.Metadata[k] = str
		}
		passages = append(passages, passage)
	}
	return passages, nil
}

// Close releases resources held by the client.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// statusError is a non-2xx response from Qdrant.
type statusError struct {
	code int
	body string
}

// isolatable reports whether the status indicates a per-point payload
// problem. Only schema-class rejections (400, 422) are worth re-submitting
// point by point; a 401/403/404 would fail every point identically.
func (e *statusError) isolatable() bool {
	return e.code == http.StatusBadRequest || e.code == http.StatusUnprocessableEntity
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("qdrant: unexpected status %d", e.code)
	}
	return fmt.Sprintf("qdrant: unexpected status %d: %s", e.code, e.body)
}

// do issues one JSON request and decodes the response into out when non-nil.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.url+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
