package chunk

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is configured.
// cl100k_base matches the OpenAI embedding models.
const DefaultEncoding = "cl100k_base"

// Tokenizer converts between text and model token sequences.
// Chunk boundaries are defined in token space, so they are encoding-dependent
// and only reproducible with the same tokenizer.
type Tokenizer interface {
	// Encode converts text to a token sequence.
	Encode(text string) []int

	// Decode converts a token sequence back to text.
	Decode(tokens []int) string

	// Count returns the number of tokens in the text.
	Count(text string) int
}

// TiktokenTokenizer implements Tokenizer using tiktoken BPE encodings.
type TiktokenTokenizer struct {
	encoder *tiktoken.Tiktoken
}

var _ Tokenizer = (*TiktokenTokenizer)(nil)

// NewTiktokenTokenizer creates a tokenizer for the named tiktoken encoding,
// e.g. "cl100k_base". The encoding vocabulary is fetched and cached by the
// tiktoken library on first use.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	encoder, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenTokenizer{encoder: encoder}, nil
}

// Encode converts text to a token sequence.
func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.encoder.Encode(text, nil, nil)
}

// Decode converts a token sequence back to text.
func (t *TiktokenTokenizer) Decode(tokens []int) string {
	return t.encoder.Decode(tokens)
}

// Count returns the number of tokens in the text.
func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.encoder.Encode(text, nil, nil))
}
