package offline

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Digester turns a plaintext password into a one-way digest string and
// checks a password against a digest it produced.
type Digester interface {
	Digest(password []byte) (string, error)
	Matches(digest string, password []byte) bool
}

// SHA256Digester stores the lowercase hex SHA-256 of the password.
type SHA256Digester struct{}

func (SHA256Digester) Digest(password []byte) (string, error) {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:]), nil
}

func (d SHA256Digester) Matches(digest string, password []byte) bool {
	candidate, _ := d.Digest(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(candidate)) == 1
}

const argon2Prefix = "argon2id$"

// Argon2Digester stores "argon2id$<salt>$<key>" with a fresh random salt per
// digest, both base64 (raw std encoding).
type Argon2Digester struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2 matches the master-key derivation parameters used for
// server-side verifiers.
var DefaultArgon2 = Argon2Digester{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

func (d Argon2Digester) Digest(password []byte) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey(password, salt, d.Time, d.Memory, d.Threads, d.KeyLen)
	enc := base64.RawStdEncoding
	return argon2Prefix + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key), nil
}

func (d Argon2Digester) Matches(digest string, password []byte) bool {
	parts := strings.Split(strings.TrimPrefix(digest, argon2Prefix), "$")
	if !strings.HasPrefix(digest, argon2Prefix) || len(parts) != 2 {
		return false
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[1])
	if err != nil || len(want) == 0 {
		return false
	}
	got := argon2.IDKey(password, salt, d.Time, d.Memory, d.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// digesterFor picks the scheme that produced digest so a store can verify
// credentials written before its configured scheme changed.
func digesterFor(digest string, argon Argon2Digester) Digester {
	if strings.HasPrefix(digest, argon2Prefix) {
		return argon
	}
	return SHA256Digester{}
}
