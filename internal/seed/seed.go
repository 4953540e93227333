// Package seed turns free-form text into seed tokens and seed tokens into random sources.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"unicode/utf8"
)

// Length is the number of seed bytes fed to the random source.
const Length = 32

// ErrSeedTooShort is returned for seeds with fewer than Length characters.
var ErrSeedTooShort = errors.New("seed must be at least 32 characters long")

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// FromText hashes text into a 64 character hex seed.
func FromText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Random returns a fresh seed built from random alphanumeric text.
func Random() string {
	buf := make([]byte, Length)
	for i := range buf {
		buf[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}
	return FromText(string(buf))
}

// Validate checks that a user supplied seed has at least Length characters.
func Validate(seed string) error {
	if utf8.RuneCountInString(seed) < Length {
		return fmt.Errorf("%q: %w", seed, ErrSeedTooShort)
	}
	return nil
}

// NewRand returns a ChaCha8 source keyed by the first Length bytes of seed.
// Equal seeds always produce equal sequences.
func NewRand(seed string) (*rand.Rand, error) {
	if err := Validate(seed); err != nil {
		return nil, err
	}
	var key [Length]byte
	copy(key[:], seed)
	return rand.New(rand.NewChaCha8(key)), nil
}

// Derive returns the seed of the n-th level in a batch started from seed.
func Derive(seed string, n int) string {
	return FromText(seed + ":" + strconv.Itoa(n))
}

// Resolve picks the seed for a run: an explicit seed wins, then seed text, then a
// random seed.
func Resolve(explicit, text string) (string, error) {
	switch {
	case explicit != "":
		if err := Validate(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	case text != "":
		return FromText(text), nil
	default:
		return Random(), nil
	}
}
