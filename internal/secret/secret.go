// Package secret compares caller-supplied secrets against configured ones.
package secret

import "crypto/subtle"

// Verify reports whether given equals expected. The comparison time does not
// depend on where the two strings first differ.
func Verify(given, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
