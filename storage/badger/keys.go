package badger

import (
	"fmt"

	"github.com/poiesic/answerit/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentNamePrefix = "docna"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeDocumentNameKey generates a key for the name index.
// Format: prefix:name
func makeDocumentNameKey(name string) []byte {
	prefix := documentNamePrefix + ":"
	buf := make([]byte, len(prefix)+len(name))
	offset := copy(buf, []byte(prefix))
	copy(buf[offset:], []byte(name))
	return buf
}
