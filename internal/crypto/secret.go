package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	ErrMissingSalt = errors.New("salt is not configured")
)

// DeriveSecret returns the hex-encoded SHA-256 digest of password+salt.
// The concatenation order matches secrets already stored by earlier
// deployments and must not change.
func DeriveSecret(password, salt string) (string, error) {
	if salt == "" {
		return "", ErrMissingSalt
	}
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:]), nil
}

// Deriver derives secrets with a process-wide salt fixed at startup.
type Deriver struct {
	salt string
}

// NewDeriver returns a Deriver bound to salt. It fails with ErrMissingSalt
// when salt is empty so the check happens once, at process start.
func NewDeriver(salt string) (*Deriver, error) {
	if salt == "" {
		return nil, ErrMissingSalt
	}
	return &Deriver{salt: salt}, nil
}

// Derive returns the secret for password.
func (d *Deriver) Derive(password string) string {
	// salt was checked by NewDeriver
	secret, _ := DeriveSecret(password, d.salt)
	return secret
}

// SecretsEqual compares two secrets in constant time.
func SecretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
