package giveaway

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// draw picks up to n distinct entries of pool in random order. Only the
// first n positions are shuffled; pool is left untouched.
func draw(pool []string, n int) ([]string, error) {
	picked := append([]string(nil), pool...)
	if n > len(picked) {
		n = len(picked)
	}
	for i := 0; i < n; i++ {
		j, err := randIndex(len(picked) - i)
		if err != nil {
			return nil, fmt.Errorf("drawing winner %d: %w", i+1, err)
		}
		picked[i], picked[i+j] = picked[i+j], picked[i]
	}
	return picked[:n], nil
}

// randIndex returns a uniform index in [0, n) from crypto/rand.
func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
