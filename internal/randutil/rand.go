package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Spawn derives n independent *rand.Rand streams from parent, one per
// simulation worker. Each stream is seeded by drawing a fresh uint64 from
// parent and remixing it, so streams spawned in the same instant from the
// same parent never share state the way seeding each stream with seed+i
// would risk for small i.
func Spawn(parent *rand.Rand, n int) []*rand.Rand {
	out := make([]*rand.Rand, n)
	for i := range out {
		s0 := mix(parent.Uint64())
		s1 := mix(parent.Uint64() + goldenRatio64)
		out[i] = rand.New(rand.NewPCG(s0, s1))
	}
	return out
}
