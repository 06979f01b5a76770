// Package noise provides the seeded coherent noise channels used by terrain
// synthesis. Every channel is a pure function of the seed and its inputs.
package noise

import (
	"hash/fnv"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Channel selects an independent noise stream.
type Channel int

const (
	Surface Channel = iota
	Caves
	Gaps
	Islands
	channelCount
)

// Octaves configures fractal Brownian motion.
type Octaves struct {
	Count       int
	Persistence float64
	Lacunarity  float64
}

// DefaultOctaves matches the terrain generator's fBm defaults.
var DefaultOctaves = Octaves{Count: 4, Persistence: 0.5, Lacunarity: 2}

// Field holds one simplex source per 2D channel plus a Perlin source for
// the 1D gap channel.
type Field struct {
	seed    int64
	octaves Octaves
	simplex [channelCount]opensimplex.Noise
	line    *perlin.Perlin
}

// New creates a field for seed. Channels are offset so they never correlate.
func New(seed int64, oct Octaves) *Field {
	if oct.Count <= 0 {
		oct = DefaultOctaves
	}
	f := &Field{seed: seed, octaves: oct}
	for ch := range f.simplex {
		f.simplex[ch] = opensimplex.New(seed + int64(ch)*7919)
	}
	f.line = perlin.NewPerlin(2, 2, 3, seed+int64(Gaps)*7919)
	return f
}

// Seed returns the seed the field was created with.
func (f *Field) Seed() int64 { return f.seed }

// Simplex returns a single octave of channel ch in [-1, 1].
func (f *Field) Simplex(ch Channel, x, y float64) float64 {
	return f.simplex[ch].Eval2(x, y)
}

// FBM sums the configured octaves of channel ch at (x/scale, y/scale) and
// normalizes the result back into [-1, 1].
func (f *Field) FBM(ch Channel, x, y, scale float64) float64 {
	if scale == 0 {
		scale = 1
	}
	total, maxAmp := 0.0, 0.0
	freq, amp := 1.0, 1.0
	for i := 0; i < f.octaves.Count; i++ {
		total += f.simplex[ch].Eval2(x*freq/scale, y*freq/scale) * amp
		maxAmp += amp
		amp *= f.octaves.Persistence
		freq *= f.octaves.Lacunarity
	}
	return total / maxAmp
}

// Line samples the 1D Perlin gap channel. go-perlin returns roughly
// [-0.7, 0.7] for 1D input.
func (f *Field) Line(x float64) float64 {
	return f.line.Noise1D(x)
}

// HashSeed turns an opaque seed string into a numeric seed with FNV-1a.
func HashSeed(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// Hash2 mixes a seed with 2D integer coordinates. Used to derive per-chunk
// random streams that do not depend on generation order.
func Hash2(seed int64, x, y int) uint64 {
	h := uint64(seed)
	h ^= uint64(int64(x)) * 0x9e3779b97f4a7c15
	h ^= uint64(int64(y)) * 0xc2b2ae3d27d4eb4f
	return mix64(h)
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
