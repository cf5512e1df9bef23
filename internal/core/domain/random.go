package domain

import (
	"math/rand/v2"
	"sync"
)

// Randomizer is the randomness source used for genre sampling and shuffles.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRandomizer returns a Randomizer safe for concurrent use.
// A zero seed selects the runtime-seeded global source.
func NewRandomizer(seed uint64) Randomizer {
	if seed == 0 {
		return globalRand{}
	}
	// #nosec G404 -- shuffling recommendations, not security-sensitive
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type globalRand struct{}

func (globalRand) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// ShuffleSongs shuffles songs in place.
func ShuffleSongs(rnd Randomizer, songs []Song) {
	rnd.Shuffle(len(songs), func(i, j int) {
		songs[i], songs[j] = songs[j], songs[i]
	})
}

// sample picks up to n items from items without replacement.
func sample(rnd Randomizer, items []string, n int) []string {
	picked := append([]string(nil), items...)
	rnd.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > n {
		picked = picked[:n]
	}
	return picked
}
