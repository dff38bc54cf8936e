package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// checkCodeChallenge reports whether BASE64URL(SHA256(verifier)) equals the stored S256 challenge.
func checkCodeChallenge(storedChallenge, verifier string) bool {
	if storedChallenge == "" {
		return false
	}
	hash := sha256.Sum256([]byte(verifier))
	computed := base64.RawURLEncoding.EncodeToString(hash[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedChallenge)) == 1
}
