package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated with content-based hashing so identical content
// always maps to the same identity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document represents a source document fetched from the corpus feed.
// Metadata fields are optional strings; UpdatedAt is freeform text supplied
// by the source and is never parsed locally.
type Document struct {
	Id        ID
	Content   string
	Name      string
	Summary   string
	URL       string
	Category  string
	UpdatedAt string
	FetchedAt time.Time // When the document was fetched into the cache
}

// Metadata returns the document's metadata fields as a payload map.
// This is the shape stored alongside each indexed chunk.
func (d *Document) Metadata() map[string]string {
	return map[string]string{
		"name":       d.Name,
		"summary":    d.Summary,
		"url":        d.URL,
		"category":   d.Category,
		"updated_at": d.UpdatedAt,
	}
}

// Chunk is a bounded token-window slice of a document's content.
// Chunks are derived during indexing and discarded after upsert; the vector
// store is the only durable home for them.
type Chunk struct {
	Id         ID
	DocumentId ID
	Index      int // Position of the chunk within its document
	Text       string
	Metadata   map[string]string
}

// ChunkID generates a deterministic chunk identity from the owning document's
// name, the chunk position, and the chunk text.
func ChunkID(docName string, index int, text string) ID {
	buf := make([]byte, 0, len(docName)+len(text)+6)
	buf = append(buf, docName...)
	buf = append(buf, 0x1f)
	buf = binary.AppendUvarint(buf, uint64(index))
	buf = append(buf, 0x1f)
	buf = append(buf, text...)
	return IDFromContent(string(buf))
}

// Passage is a retrieval unit returned by the vector store.
type Passage struct {
	Id       ID
	Text     string
	Metadata map[string]string
	Score    float32
}

// Source returns the name of the document the passage came from,
// or "unknown" when the store did not echo a name.
func (p *Passage) Source() string {
	if name, ok := p.Metadata["name"]; ok && name != "" {
		return name
	}
	return "unknown"
}

// Identity returns the passage's dedup key: the store-assigned ID when
// present, otherwise a content hash of the passage text.
func (p *Passage) Identity() ID {
	if p.Id != 0 {
		return p.Id
	}
	return IDFromContent(p.Text)
}

// Answer is the result of a full query pipeline run.
type Answer struct {
	Text        string
	Paraphrases []string   // LLM-generated rephrasings used for fan-out retrieval
	Passages    []*Passage // Deduplicated pooled passages the answer was grounded on
}
