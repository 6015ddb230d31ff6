package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// AnonymousSubject is used when a session carries no subject identifier.
const AnonymousSubject = "anonymous"

// HashSubjectKey returns a filesystem-safe identifier for a subject ID.
// Surrounding whitespace is ignored and an empty ID hashes as AnonymousSubject.
func HashSubjectKey(subjectID string) string {
	s := strings.TrimSpace(subjectID)
	if s == "" {
		s = AnonymousSubject
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
