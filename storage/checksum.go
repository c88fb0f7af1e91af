package storage

import (
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// rowHasher accumulates an xxhash digest over dataset rows.
type rowHasher struct {
	digest *xxhash.Digest
}

func newRowHasher() *rowHasher {
	return &rowHasher{digest: xxhash.New()}
}

func (h *rowHasher) add(record []string) {
	_, _ = h.digest.WriteString(strings.Join(record, "\x1f"))
	_, _ = h.digest.WriteString("\n")
}

func (h *rowHasher) sum() string {
	return hex.EncodeToString(h.digest.Sum(nil))
}
