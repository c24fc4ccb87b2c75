// Package chunk splits document text into overlapping token windows for
// indexing.
//
// The Splitter interface is the seam the ingestion pipeline depends on; the
// TokenSplitter implementation counts tokens through a Tokenizer rather than
// characters or whitespace, so production chunk boundaries follow the model's
// BPE encoding (tiktoken) while tests can substitute a deterministic
// tokenizer.
package chunk
