// Package digest implements the content digest engine over the SHA family.
package digest

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is a supported naming scheme, not a security boundary
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"strings"

	simd "github.com/minio/sha256-simd"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Digester = (*Engine)(nil)

// Algorithm is one of the supported digest variants.
type Algorithm uint8

const (
	// SHA1 produces 160-bit digests.
	SHA1 Algorithm = iota + 1
	// SHA224 produces 224-bit digests.
	SHA224
	// SHA256 produces 256-bit digests.
	SHA256
	// SHA384 produces 384-bit digests.
	SHA384
	// SHA512 produces 512-bit digests.
	SHA512
)

// Algorithms lists every supported variant in increasing digest size.
func Algorithms() []Algorithm {
	return []Algorithm{SHA1, SHA224, SHA256, SHA384, SHA512}
}

var aliases = map[string]Algorithm{
	"1": SHA1, "sha1": SHA1, "sha-1": SHA1,
	"224": SHA224, "sha224": SHA224, "sha-224": SHA224,
	"256": SHA256, "sha256": SHA256, "sha-256": SHA256,
	"384": SHA384, "sha384": SHA384, "sha-384": SHA384,
	"512": SHA512, "sha512": SHA512, "sha-512": SHA512,
}

// ParseAlgorithm resolves a case-insensitive name or numeric alias such as
// "SHA256" or "256". It reports false for unsupported names.
func ParseAlgorithm(name string) (Algorithm, bool) {
	alg, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return alg, ok
}

// String returns the canonical lowercase name.
func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA224:
		return "sha224"
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HexLen returns the length of the hex-encoded digest.
func (a Algorithm) HexLen() int {
	return a.newHash().Size() * 2
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New() //nolint:gosec // see import
	case SHA224:
		return sha256.New224()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	default:
		return simd.New()
	}
}

// bufferSize is the size of the read buffer owned by each Engine.
const bufferSize = 64 * 1024

// Engine streams content through one algorithm. It owns its hash state and
// read buffer, so each in-flight file needs its own Engine.
type Engine struct {
	alg Algorithm
	h   hash.Hash
	buf []byte
	sum []byte
}

// New creates an Engine for the named algorithm.
func New(name string) (*Engine, error) {
	alg, ok := ParseAlgorithm(name)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownAlgorithm, "invalid digest"), "digest", name)
	}
	return NewEngine(alg), nil
}

// NewEngine creates an Engine for a known algorithm.
func NewEngine(alg Algorithm) *Engine {
	h := alg.newHash()
	return &Engine{
		alg: alg,
		h:   h,
		buf: make([]byte, bufferSize),
		sum: make([]byte, 0, h.Size()),
	}
}

// Factory returns a DigesterFactory producing independent engines for alg.
func Factory(alg Algorithm) ports.DigesterFactory {
	return func() ports.Digester {
		return NewEngine(alg)
	}
}

// Name returns the canonical algorithm name.
func (e *Engine) Name() string {
	return e.alg.String()
}

// Algorithm returns the variant this engine computes.
func (e *Engine) Algorithm() Algorithm {
	return e.alg
}

// Hash reads r to EOF and returns the lowercase hex digest of its content.
// The engine is reset before returning, including on read errors.
func (e *Engine) Hash(r io.Reader) (string, error) {
	defer e.reset()

	for {
		n, err := r.Read(e.buf)
		if n > 0 {
			_, _ = e.h.Write(e.buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", zerr.Wrap(err, domain.ErrFileHashFailed.Error())
		}
	}

	e.sum = e.h.Sum(e.sum[:0])
	return hex.EncodeToString(e.sum), nil
}

func (e *Engine) reset() {
	e.h.Reset()
	clear(e.buf)
	e.sum = e.sum[:0]
}
