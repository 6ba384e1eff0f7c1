package common

// WipeByteArray overwrites a sensitive buffer with zeros. Safe on nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
