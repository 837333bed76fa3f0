package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/vestige/core"
)

// Key prefixes for different data types
const (
	documentPrefix     = "doc:"
	documentDatePrefix = "docd:"
	outputPrefix       = "out:"
	outputIDSeq        = "outseq"
)

// makeDocumentKey generates a key for a document by digest.
func makeDocumentKey(digest core.Digest) []byte {
	return []byte(documentPrefix + string(digest))
}

// makeDocumentDateKey generates a composite key for the recency index.
// Format: prefix timestamp digest
func makeDocumentDateKey(timestamp time.Time, digest core.Digest) []byte {
	prefixBytes := []byte(documentDatePrefix)
	buf := make([]byte, len(prefixBytes)+8+len(digest))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], digest)
	return buf
}

// makeDocumentDateSeekKey generates a key that sorts after every entry in
// the recency index, for reverse iteration.
func makeDocumentDateSeekKey() []byte {
	prefixBytes := []byte(documentDatePrefix)
	buf := make([]byte, len(prefixBytes)+9)
	offset := copy(buf, prefixBytes)
	for i := offset; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return buf
}

// makeOutputKey generates a composite key for an output.
// Format: prefix digest : id
func makeOutputKey(digest core.Digest, id uint64) []byte {
	prefix := makeOutputPrefix(digest)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// makeOutputPrefix generates the key prefix shared by all outputs of a digest.
func makeOutputPrefix(digest core.Digest) []byte {
	return []byte(outputPrefix + string(digest) + ":")
}

// makeOutputSeekKey generates a key that sorts after every output of a
// digest, for reverse iteration.
func makeOutputSeekKey(digest core.Digest) []byte {
	return append(makeOutputPrefix(digest), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
}
