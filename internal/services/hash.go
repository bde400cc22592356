package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// PasswordHash returns the hex SHA-256 digest of plain. It is unsalted so that
// hashes stay comparable with rows already in the table.
func PasswordHash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// AnswerHash hashes a security answer after trimming and lowercasing it.
func AnswerHash(answer string) string {
	return PasswordHash(strings.ToLower(strings.TrimSpace(answer)))
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
