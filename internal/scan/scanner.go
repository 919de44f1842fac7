package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"tidy-go/internal/model"
	"tidy-go/internal/tidy"
)

// CompositeScanner fingerprints files from cheap stat metadata plus a bounded
// head+tail content sample.
type CompositeScanner struct{}

// NewCompositeScanner creates a scanner.
func NewCompositeScanner() *CompositeScanner {
	return &CompositeScanner{}
}

// ScanFile stats the file, reads its content sample, and returns the
// composite fingerprint. Scanning an unmodified file twice yields the
// identical hash.
func (s *CompositeScanner) ScanFile(path string) (model.FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.FileFingerprint{}, fmt.Errorf("stat file: %w", err)
	}

	sample := ReadSample(path)

	return model.FileFingerprint{
		Path:          path,
		SizeBytes:     info.Size(),
		MTime:         info.ModTime(),
		Hash:          ComputeHash(info.Size(), info.ModTime(), sample),
		ContentSample: sample,
	}, nil
}

// ComputeHash digests (size, mtime, sample) into a hex SHA-256 string.
// The byte order is fixed: decimal size, then decimal mtime in Unix
// nanoseconds, then the raw sample bytes. Determinism is the contract;
// collision resistance beyond SHA-256's is not required.
func ComputeHash(size int64, mtime time.Time, sample []byte) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(size, 10)))
	h.Write([]byte(strconv.FormatInt(mtime.UnixNano(), 10)))
	h.Write(sample)
	return hex.EncodeToString(h.Sum(nil))
}

// Compile-time check that CompositeScanner implements tidy.Scanner
var _ tidy.Scanner = (*CompositeScanner)(nil)
