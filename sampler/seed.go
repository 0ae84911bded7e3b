package sampler

import "time"

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// DeriveSeed returns the seed for worker i of a run rooted at root. Distinct
// workers get well separated streams even for adjacent roots.
func DeriveSeed(root int64, i int) int64 {
	return int64(mix64(uint64(root) + 0x9e3779b97f4a7c15*uint64(i+1)))
}

// seedFunc returns a fresh root seed; tests may replace it.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// RootSeed returns seed unchanged unless it is zero, in which case a time
// based seed is drawn.
func RootSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return int64(mix64(uint64(seedFunc())))
}
