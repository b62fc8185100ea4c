package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/interworky/error-tracker/internal/metrics"
	"github.com/interworky/error-tracker/internal/model"
)

// FallbackPrefix marks fingerprints that could not be hashed.
// A fallback fingerprint is unique per report, so that report is never deduplicated.
const FallbackPrefix = "fallback-"

// Input is the identity of an error for deduplication purposes.
type Input struct {
	NormalizedMessage string
	Category          model.Category
	SourceFile        string
	SourceLine        int
	OrganizationID    string
}

// Fingerprinter derives 128-bit hex fingerprints.
type Fingerprinter struct {
	newHash func() hash.Hash
}

// New creates a Fingerprinter backed by SHA-256 truncated to 16 bytes.
func New() *Fingerprinter {
	return &Fingerprinter{newHash: sha256.New}
}

// Compute returns hex(sha256(fields)[:16]). Fields are length-prefixed so that
// ("ab","c") and ("a","bc") never encode identically.
func (f *Fingerprinter) Compute(in Input) string {
	h := f.newHash()
	fields := []string{
		string(in.Category),
		in.NormalizedMessage,
		in.SourceFile,
		strconv.Itoa(in.SourceLine),
		in.OrganizationID,
	}
	for _, field := range fields {
		if _, err := fmt.Fprintf(h, "%d:%s|", len(field), field); err != nil {
			return fallback(in, err)
		}
	}
	sum := h.Sum(nil)
	if len(sum) > 16 {
		sum = sum[:16]
	}
	return hex.EncodeToString(sum)
}

func fallback(in Input, err error) string {
	log.Error().
		Err(err).
		Str("organization_id", in.OrganizationID).
		Str("category", string(in.Category)).
		Msg("fingerprint hashing failed, using fallback fingerprint")
	metrics.RecordFingerprintFallback()
	return FallbackPrefix + uuid.NewString()
}

// IsFallback reports whether fp was produced by the fallback path.
func IsFallback(fp string) bool {
	return strings.HasPrefix(fp, FallbackPrefix)
}
