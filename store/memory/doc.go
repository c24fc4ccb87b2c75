// Package memory implements store.VectorStore as an in-process cosine index.
//
// It exists for tests and offline runs. Search is an exact scan, so it is
// only suitable for small corpora.
package memory
