// Package simulate produces the synthetic inputs consumed by the classifiers:
// traffic readings and device camera frames. There is no real acquisition;
// every value comes from an injected pseudo-random source so tests can pin
// the sequence with a fixed seed.
package simulate

import "math/rand"

// SampleLen is the number of readings in a single traffic sample.
const SampleLen = 10

// FrameSize is the edge length of a square device frame.
const FrameSize = 32

// Frame is a FrameSize x FrameSize grayscale intensity grid, row-major,
// values in [0,1].
type Frame []float64

// Generator produces traffic samples and device frames.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator backed by the given random source.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Traffic returns a fresh sample of SampleLen readings. Each reading is a
// shared baseline in [30,45) plus per-point noise in [-5,5]; with 10%
// probability a point additionally receives an anomaly offset, either mild
// ([25,45)) or severe ([50,90)). Readings are capped at 100. There is no
// lower cap.
func (g *Generator) Traffic() []float64 {
	base := 30 + g.rng.Float64()*15
	sample := make([]float64, SampleLen)
	for i := range sample {
		v := base + (g.rng.Float64()*10 - 5)
		if g.rng.Float64() < 0.1 {
			if g.rng.Float64() < 0.5 {
				v += 25 + g.rng.Float64()*20
			} else {
				v += 50 + g.rng.Float64()*40
			}
		}
		if v > 100 {
			v = 100
		}
		sample[i] = v
	}
	return sample
}

// Frame returns a fresh device frame: a dim base intensity field with pixel
// noise, and with 10% probability a bright hot-spot block injected at a
// random position, standing in for a fault signature on the device housing.
func (g *Generator) Frame() Frame {
	px := make(Frame, FrameSize*FrameSize)
	base := 0.2 + g.rng.Float64()*0.2
	for i := range px {
		px[i] = base + g.rng.Float64()*0.1
	}
	if g.rng.Float64() < 0.1 {
		g.injectHotSpot(px)
	}
	return px
}

func (g *Generator) injectHotSpot(px Frame) {
	const spot = 6
	x0 := g.rng.Intn(FrameSize - spot)
	y0 := g.rng.Intn(FrameSize - spot)
	for y := y0; y < y0+spot; y++ {
		for x := x0; x < x0+spot; x++ {
			v := 0.7 + g.rng.Float64()*0.3
			if v > 1 {
				v = 1
			}
			px[y*FrameSize+x] = v
		}
	}
}
