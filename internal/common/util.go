package common

import "strings"

// WipeByteArray overwrites b with zeros. It is used to drop passwords and
// PINs read from the terminal once they have been sent. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address so
// that lookups and the unique constraint agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
