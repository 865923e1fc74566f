package quiz

import (
	"fmt"
	"math/rand/v2"
)

// Permute returns a copy of it whose options are reordered so that
// result.Options[j] == it.Options[perm[j]]. Correct follows its option.
func Permute(it Item, perm []int) (Item, error) {
	if len(perm) != len(it.Options) {
		return Item{}, fmt.Errorf("permutation has %d entries, item has %d options", len(perm), len(it.Options))
	}
	used := make([]bool, len(perm))
	out := it
	out.Options = make([]string, len(perm))
	out.Correct = -1
	for j, from := range perm {
		if from < 0 || from >= len(perm) || used[from] {
			return Item{}, fmt.Errorf("invalid permutation %v", perm)
		}
		used[from] = true
		out.Options[j] = it.Options[from]
		if from == it.Correct {
			out.Correct = j
		}
	}
	return out, nil
}

// Shuffle randomises the option order of it.
func Shuffle(it Item, rng *rand.Rand) Item {
	perm := rng.Perm(len(it.Options))
	out, err := Permute(it, perm)
	if err != nil {
		// rng.Perm always yields a valid permutation of the right length.
		panic(err)
	}
	return out
}

// ShuffleItems shuffles item order and, optionally, option order.
func ShuffleItems(items []Item, options bool, rng *rand.Rand) []Item {
	out := make([]Item, len(items))
	for i, j := range rng.Perm(len(items)) {
		out[i] = items[j]
		if options {
			out[i] = Shuffle(out[i], rng)
		}
	}
	return out
}
