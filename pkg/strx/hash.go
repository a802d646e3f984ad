package strx

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MD5Hex returns the lower-case hex MD5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA1Hex returns the lower-case hex SHA-1 digest of s.
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA256Hex returns the lower-case hex SHA-256 digest of s.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SHA512Hex returns the lower-case hex SHA-512 digest of s.
func SHA512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Keccak256Hex returns the hex Keccak-256 digest of s, as used for Ethereum
// hashes.
func Keccak256Hex(s string) string {
	return hex.EncodeToString(crypto.Keccak256([]byte(s)))
}

// Hash dispatches on algo (md5, sha1, sha256, sha512, keccak256).
func Hash(algo, s string) (string, error) {
	switch algo {
	case "md5":
		return MD5Hex(s), nil
	case "sha1":
		return SHA1Hex(s), nil
	case "sha256":
		return SHA256Hex(s), nil
	case "sha512":
		return SHA512Hex(s), nil
	case "keccak256", "keccak":
		return Keccak256Hex(s), nil
	}
	return "", fmt.Errorf("unsupported hash algorithm %q", algo)
}

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Base64Encode encodes s with standard padding.
func Base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Base64Decode decodes standard or URL-safe base64, padded or not.
func Base64Decode(s string) (string, error) {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if b, err := enc.DecodeString(s); err == nil {
			return string(b), nil
		}
	}
	return "", fmt.Errorf("decode base64: invalid input")
}

// NewGUID returns a random RFC 4122 UUID string.
func NewGUID() string {
	return uuid.NewString()
}
