package stream

import (
	"math"
	"math/rand"
	"time"
)

// PropTwinkle is the fraction of pixels lit as particles, in [0, 1].
const PropTwinkle = "twinkle"

// twinkles lights a random set of particles across the strip. Each pixel
// holds a fixed rank, so raising the fraction adds particles and lowering it
// removes the newest first.
type twinkles struct {
	rand *rand.Rand
	rank []int
}

func newTwinkles(seed int64) *twinkles {
	return &twinkles{rand: rand.New(rand.NewSource(seed))}
}

// lit reports how strongly pixel i of n is lit at fraction. The particle on
// the boundary rank is partially lit so the count fades smoothly.
func (t *twinkles) lit(i, n int, fraction float64) float64 {
	if fraction <= 0 || math.IsNaN(fraction) {
		return 0
	}
	if len(t.rank) != n {
		t.rank = t.rand.Perm(n)
	}
	count := unit(fraction) * float64(n)
	return unit(count - float64(t.rank[i]))
}

func defaultTwinkles() *twinkles {
	return newTwinkles(time.Now().UTC().UnixNano())
}
