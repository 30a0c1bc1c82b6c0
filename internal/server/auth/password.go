// Package auth implements the credential primitives of the login flow:
// password hashing, OTP challenges and session tokens.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Digests embed them, so they can be tuned without
// invalidating stored credentials.
const (
	argonMemoryKB    uint32 = 64 * 1024
	argonTime        uint32 = 1
	argonParallelism uint8  = 4
	argonSaltLength         = 16
	argonKeyLength   uint32 = 32
)

// HashPassword derives an argon2id digest of plaintext with a fresh random
// salt and returns it in PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash). Two calls with the same
// input produce different digests.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemoryKB, argonParallelism, argonKeyLength)

	digest := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemoryKB, argonTime, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	return digest, nil
}

// VerifyPassword reports whether plaintext matches the PHC digest. The
// comparison is constant-time. A malformed digest is treated as a mismatch,
// never as a distinct error.
func VerifyPassword(plaintext, digest string) bool {
	memory, time, parallelism, salt, hash, ok := parsePHC(digest)
	if !ok {
		return false
	}

	candidate := argon2.IDKey([]byte(plaintext), salt, time, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, candidate) == 1
}

func parsePHC(digest string) (memory, time uint32, parallelism uint8, salt, hash []byte, ok bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}

	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &p); err != nil {
		return 0, 0, 0, nil, nil, false
	}
	if memory == 0 || time == 0 || p == 0 {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return 0, 0, 0, nil, nil, false
	}

	return memory, time, p, salt, hash, true
}
