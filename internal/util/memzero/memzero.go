// Package memzero wipes sensitive byte slices once they are no longer
// needed.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. The constant-time copy keeps the
// compiler from eliding the wipe.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
