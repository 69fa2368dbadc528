package utils

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Batch reference format: BVU-{year}-{4-digit sequence}, e.g. BVU-2025-4821.
// The sequence is random, not serial: uniqueness is NOT guaranteed by
// construction. The unique index on batch_ref is the actual authority;
// creators retry generation on a duplicate-key error.
const (
	BatchRefPrefix = "BVU"
	batchRefSeqMin = 1000
	batchRefSeqMax = 9999
)

// GenerateBatchRef produces a new human-facing batch reference for the
// current calendar year
func GenerateBatchRef() string {
	return generateBatchRefAt(time.Now())
}

func generateBatchRefAt(now time.Time) string {
	seq := batchRefSeqMin + rand.IntN(batchRefSeqMax-batchRefSeqMin+1)
	return fmt.Sprintf("%s-%d-%04d", BatchRefPrefix, now.Year(), seq)
}

// TraceURL builds the public trace link embedded in a batch QR code.
// References are alphanumeric plus hyphen, so no escaping is needed.
func TraceURL(origin, batchRef string) string {
	return fmt.Sprintf("%s/trace/%s", origin, batchRef)
}
