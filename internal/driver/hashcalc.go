package driver

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"

	"chamber/internal/analyzer"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// combineDigest: H(content || part1 || part2 ...).
func combineDigest(content [32]byte, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsFingerprint encodes everything besides the file content that
// changes the diagnostics of a check.
func optionsFingerprint(opts CheckOptions) []byte {
	fp := struct {
		Schema         uint16
		Version        string
		MaxDiagnostics int
		Analyze        bool
		Analyzer       analyzer.Config
	}{diskCacheSchemaVersion, opts.ToolVersion, opts.MaxDiagnostics, opts.Analyze, opts.Analyzer}
	data, err := msgpack.Marshal(&fp)
	if err != nil {
		// конфигурация из простых типов всегда сериализуется
		panic(err)
	}
	return data
}

// CacheKey returns the disk cache key for a file hash under opts.
func CacheKey(contentHash [32]byte, opts CheckOptions) Digest {
	return combineDigest(contentHash, optionsFingerprint(opts))
}
