package auth

import "golang.org/x/crypto/bcrypt"

// HashCost is the bcrypt work factor used for stored credentials.
const HashCost = bcrypt.DefaultCost

// HashPassword derives a salted one-way digest of plaintext. The plaintext is
// never logged or persisted.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches digest. bcrypt performs a
// constant-time comparison internally.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
