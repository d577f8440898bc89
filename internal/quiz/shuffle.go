package quiz

import (
	"math/rand/v2"
)

// NewRand returns a non-cryptographic random source seeded from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randomSeed is used when a session is created without an explicit source.
func randomSeed() uint64 {
	return rand.Uint64()
}

// Shuffle returns a uniformly random permutation of s using Fisher-Yates.
// The input slice is never modified.
func Shuffle[T any](r *rand.Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleOptions shuffles a choice list and returns the position the option
// at index correct moved to. If correct is out of range the returned index
// is -1.
func ShuffleOptions(r *rand.Rand, options []string, correct int) ([]string, int) {
	order := make([]int, len(options))
	for i := range order {
		order[i] = i
	}
	order = Shuffle(r, order)

	shuffled := make([]string, len(options))
	newCorrect := -1
	for pos, from := range order {
		shuffled[pos] = options[from]
		if from == correct {
			newCorrect = pos
		}
	}
	return shuffled, newCorrect
}

// pick returns a random element of s. s must be non-empty.
func pick[T any](r *rand.Rand, s []T) T {
	return s[r.IntN(len(s))]
}
