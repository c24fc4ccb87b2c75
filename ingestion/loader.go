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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
)

// documentRecord is the JSON shape of one source document.
type documentRecord struct {
	Content   string `json:"content"`
	Name      string `json:"name"`
	Summary   string `json:"summary"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	UpdatedAt string `json:"updated_at"`
}

// Rejection reports one source record that failed validation.
type Rejection struct {
	// Index is the record's position in the source array.
	Index int

	// Name is the record's name field, which may be empty.
	Name string

	// Err is the validation failure.
	Err error
}

// LoadResult holds the documents that passed validation and the records
// that did not.
type LoadResult struct {
	Documents []*core.Document
	Rejected  []Rejection
}

// Loader reads a JSON document set from a local file or an HTTP URL.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a Loader with a 30 second HTTP timeout.
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: slog.Default().With("component", "loader"),
	}
}

// Load reads the source and validates each record individually.
// A record that fails validation is reported in the result and skipped;
// only an unreadable or unparseable source fails the whole load.
func (l *Loader) Load(ctx context.Context, source string) (*LoadResult, error) {
	if source == "" {
		return nil, ErrSourceRequired
	}

	reader, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []documentRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	now := time.Now().UTC()
	result := &LoadResult{}
	for i, record := range records {
		doc := &core.Document{
			Content:   record.Content,
			Name:      record.Name,
			Summary:   record.Summary,
			URL:       record.URL,
			Category:  record.Category,
			UpdatedAt: record.UpdatedAt,
			FetchedAt: now,
		}
		if err := core.ValidateDocument(doc); err != nil {
			l.logger.Warn("rejecting document", "index", i, "name", record.Name, "err", err)
			result.Rejected = append(result.Rejected, Rejection{Index: i, Name: record.Name, Err: err})
			continue
		}
		doc.Id = core.IDFromContent(doc.Content)
		result.Documents = append(result.Documents, doc)
	}

	l.logger.Info("loaded documents",
		"source", source, "accepted", len(result.Documents), "rejected", len(result.Rejected))
	return result, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %d", source, resp.StatusCode)
		}
		return resp.Body, nil
	}
	return os.Open(source)
}
