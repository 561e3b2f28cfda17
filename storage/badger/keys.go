package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/voxnote/core"
)

// Key prefixes for different data types
const (
	voiceRecordPrefix     = "vrec"
	voiceRecordRefPrefix  = "vref"
	voiceRecordDatePrefix = "vrecd"
	voiceRecordIDSeq      = "vrecseq"
)

// makeRecordKey generates a key for a voice record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", voiceRecordPrefix, id))
}

// makeRefKey generates a key for the external-ref index.
// The ref is hashed to a fixed 8 bytes so key sizes don't depend on the
// transport's identifier length.
func makeRefKey(ref string) []byte {
	prefix := voiceRecordRefPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], core.RefHash(ref))
	return buf
}

// makeDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := voiceRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialDateKey(timestamp time.Time) []byte {
	prefix := voiceRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
