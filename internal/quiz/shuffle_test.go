package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleIsPermutation(t *testing.T) {
	r := NewRand(1)
	for n := 0; n < 12; n++ {
		in := make([]int, n)
		for i := range in {
			in[i] = i * 10
		}
		orig := append([]int(nil), in...)

		out := Shuffle(r, in)

		assert.Len(t, out, n)
		assert.ElementsMatch(t, orig, out)
		assert.Equal(t, orig, in, "input must not be modified")
	}
}

func TestShuffleSingleElementIsIdentity(t *testing.T) {
	assert.Equal(t, []string{"only"}, Shuffle(NewRand(3), []string{"only"}))
	assert.Empty(t, Shuffle(NewRand(3), []string(nil)))
}

func TestShuffleIsUniform(t *testing.T) {
	const (
		trials = 20000
		n      = 4
	)
	r := NewRand(42)
	var counts [n][n]int
	in := []int{0, 1, 2, 3}
	for range trials {
		for pos, v := range Shuffle(r, in) {
			counts[v][pos]++
		}
	}

	expected := trials / n
	for v := range n {
		for pos := range n {
			assert.InDelta(t, expected, counts[v][pos], float64(expected)/10,
				"element %d at position %d", v, pos)
		}
	}
}

func TestShuffleOptionsTracksCorrectIndex(t *testing.T) {
	options := []string{"A", "B", "C", "D"}
	for seed := uint64(0); seed < 50; seed++ {
		shuffled, idx := ShuffleOptions(NewRand(seed), options, 1)

		require.ElementsMatch(t, options, shuffled)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, "B", shuffled[idx], "seed %d", seed)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, options)
}

func TestShuffleOptionsOutOfRange(t *testing.T) {
	_, idx := ShuffleOptions(NewRand(1), []string{"A", "B"}, 5)
	assert.Equal(t, -1, idx)
}

func TestNewRandIsDeterministic(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, Shuffle(NewRand(9), in), Shuffle(NewRand(9), in))
}
