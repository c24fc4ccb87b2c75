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


package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/store"
)

// Store is an in-process vector store with exact cosine search.
// Writes overwrite by point ID, matching upsert semantics of the
// hosted store.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    map[core.ID]store.Point
}

var _ store.VectorStore = (*Store)(nil)

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{points: make(map[core.ID]store.Point)}
}

// EnsureCollection fixes the vector dimension for subsequent writes.
// Calling it again with a different dimension clears the index, which is
// what recreating a hosted collection would do.
func (s *Store) EnsureCollection(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return store.ErrInvalidDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != dimension {
		s.points = make(map[core.ID]store.Point)
	}
	s.dimension = dimension
	return nil
}

// Upsert stores the points. Points whose vector does not match the
// collection dimension are reported in the result, the rest land.
func (s *Store) Upsert(_ context.Context, points []store.Point) (*store.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &store.UpsertResult{}
	for _, p := range points {
		if s.dimension != 0 && len(p.Vector) != s.dimension {
			result.Failed = append(result.Failed, store.PointError{
				Id:  p.Id,
				Err: fmt.Errorf("vector has %d dimensions, collection expects %d", len(p.Vector), s.dimension),
			})
			continue
		}
		s.points[p.Id] = p
		result.Upserted++
	}
	return result, nil
}

// Search returns the topK most similar points by cosine similarity.
func (s *Store) Search(_ context.Context, vector []float32, topK int) ([]*core.Passage, error) {
	if topK <= 0 {
		topK = store.DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	passages := make([]*core.Passage, 0, len(s.points))
	for _, p := range s.points {
		metadata := make(map[string]string, len(p.Payload))
		for k, v := range p.Payload {
			metadata[k] = v
		}
		passages = append(passages, &core.Passage{
			Id:       p.Id,
			Text:     p.Text,
			Metadata: metadata,
			Score:    cosineSimilarity(vector, p.Vector),
		})
	}

	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		// Stable order for ties so repeated searches agree.
		return passages[i].Id < passages[j].Id
	})

	if len(passages) > topK {
		passages = passages[:topK]
	}
	return passages, nil
}

// Len reports the number of stored points.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
