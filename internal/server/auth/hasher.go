// Package auth provides the credential primitives of the server: argon2id
// password hashing and HS256 token issuance/verification.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Argon2Params holds the cost parameters for argon2id key derivation.
// All parameters are embedded into produced digests, so verification
// never depends on the currently configured values.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the cost parameters used when none are
// configured: 64 MiB, 1 pass, 4 lanes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies passwords using argon2id. Digests are
// PHC-formatted strings of the form
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with salt and key in unpadded standard base64.
//
// Key derivation is deliberately slow and memory-hard; a weighted semaphore
// caps the number of concurrent derivations so a burst of login attempts
// cannot exhaust process memory.
type Hasher struct {
	params Argon2Params
	sem    *semaphore.Weighted
}

// NewHasher creates a Hasher with the given cost parameters. maxConcurrent
// limits simultaneous key derivations; values below 1 are treated as 1.
func NewHasher(params Argon2Params, maxConcurrent int64) *Hasher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Hasher{params: params, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Hash derives an argon2id digest of password using a fresh random salt.
// Any byte string is hashable, including the empty one; length policy is
// enforced by callers. The only failure modes are an exhausted context and
// a malfunctioning random source.
func (h *Hasher) Hash(ctx context.Context, password []byte) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key, err := h.deriveKey(ctx, password, salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	if err != nil {
		return "", err
	}

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify re-derives the key using the parameters embedded in digest and
// compares it to the stored key in constant time. A digest that does not
// parse yields an error wrapping common.ErrorInvalidDigest; a password that
// simply does not match yields (false, nil).
func (h *Hasher) Verify(ctx context.Context, password []byte, digest string) (bool, error) {
	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	candidate, err := h.deriveKey(ctx, password, salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(key)))
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

func (h *Hasher) deriveKey(ctx context.Context, password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("error waiting for hashing slot: %w", err)
	}
	defer h.sem.Release(1)

	return argon2.IDKey(password, salt, time, memory, threads, keyLen), nil
}

func decodeDigest(digest string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params

	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return p, nil, nil, fmt.Errorf("%w: expected 6 segments, got %d", common.ErrorInvalidDigest, len(parts))
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrorInvalidDigest, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: bad version segment", common.ErrorInvalidDigest)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %d", common.ErrorInvalidDigest, version)
	}

	var memory, iterations uint32
	var parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: bad parameter segment", common.ErrorInvalidDigest)
	}
	if parallelism == 0 || parallelism > 255 {
		return p, nil, nil, fmt.Errorf("%w: parallelism %d out of range", common.ErrorInvalidDigest, parallelism)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: bad salt encoding", common.ErrorInvalidDigest)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: bad key encoding", common.ErrorInvalidDigest)
	}
	if len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: empty key", common.ErrorInvalidDigest)
	}

	p.Memory = memory
	p.Iterations = iterations
	p.Parallelism = uint8(parallelism)
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
