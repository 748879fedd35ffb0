package institutions

import (
	"crypto/rand"
	"fmt"
)

const (
	joinCodePrefix   = "MDR"
	joinCodeSuffix   = 4
	joinCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateJoinCode produces a short human-shareable code: a fixed prefix plus
// four random upper-case base-36 characters. Collisions are possible and are
// handled at insert time against the unique index.
func GenerateJoinCode() (string, error) {
	buf := make([]byte, joinCodeSuffix)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return joinCodePrefix + string(buf), nil
}
