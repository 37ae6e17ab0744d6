package adjustment

import (
	"math/rand/v2"
	"strconv"
)

const (
	maxIdentifier    = 1_000_000
	maxRandomRetries = 64
)

// IdGenerator hands out record identifiers in [1, 1000000] that are not yet used.
type IdGenerator struct {
	intn func(n int) int
}

func NewIdGenerator() *IdGenerator {
	return &IdGenerator{intn: rand.IntN}
}

// Generate returns an identifier absent from existing. Random picks are retried a bounded
// number of times, after which the identifier space is probed upwards from the last pick,
// and past the upper bound the next free integer is used.
func (g *IdGenerator) Generate(existing map[string]struct{}) string {
	var candidate int
	for range maxRandomRetries {
		candidate = g.intn(maxIdentifier) + 1
		if _, taken := existing[strconv.Itoa(candidate)]; !taken {
			return strconv.Itoa(candidate)
		}
	}
	for i := 1; ; i++ {
		next := i
		if i <= maxIdentifier {
			next = (candidate+i-1)%maxIdentifier + 1
		}
		if _, taken := existing[strconv.Itoa(next)]; !taken {
			return strconv.Itoa(next)
		}
	}
}
