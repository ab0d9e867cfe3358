package crypto

import "runtime"

// Zero overwrites b with zeros. Every derived key, content key and credential
// buffer goes through here on all exit paths so key material does not linger
// in memory beyond the operation that needed it.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
