package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// applyRelief samples layered simplex noise at each province centroid.
// Land is lifted a little above the ocean floor so coasts read on a render.
func applyRelief(m *Map, seed int64) {
	noise := opensimplex.NewNormalized(seed + 1)
	for _, p := range m.Provinces {
		elev := octaveNoise(noise, p.Centroid[0], p.Centroid[1], 4, 3.0, 0.5)
		if p.IsOcean {
			elev *= 0.4
		} else {
			elev = 0.4 + elev*0.6
		}
		p.Elevation = elev
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
