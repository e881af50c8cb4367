package world

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvince(t *testing.T) {
	border := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	p, err := NewProvince("p1", "0-1-2", border, orb.Point{0.6, 0.3})
	require.NoError(t, err)
	assert.True(t, p.IsOcean)
	assert.NotNil(t, p.Neighbors)
	assert.False(t, p.IsCapital())

	p.claim("Ashford", "f1")
	assert.False(t, p.IsOcean)
	assert.Equal(t, "Ashford", p.Name)
	assert.Equal(t, "f1", p.FactionID)

	p.City = NewCity(true)
	assert.True(t, p.IsCapital())
}

func TestNewProvinceRejects(t *testing.T) {
	open := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	_, err := NewProvince("p1", "0-1-2-3", open, orb.Point{})
	assert.Error(t, err)

	_, err = NewProvince("p1", "0-1", orb.Ring{{0, 0}, {1, 0}, {0, 0}}, orb.Point{})
	assert.Error(t, err)

	closed := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	_, err = NewProvince("", "0-1-2", closed, orb.Point{})
	assert.Error(t, err)
	_, err = NewProvince("p1", "", closed, orb.Point{})
	assert.Error(t, err)
}

func TestNamer(t *testing.T) {
	n := NewNamer(testRand(1))
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		name := n.Province()
		assert.False(t, seen[name], "name %s repeated", name)
		seen[name] = true
	}
	assert.Regexp(t, `^The [A-Z][a-z]+ [A-Z][a-z]+$`, n.Faction())
}

func TestIDSourceReproducible(t *testing.T) {
	a := idSource(testRand(3))
	b := idSource(testRand(3))
	for i := 0; i < 5; i++ {
		id := a()
		assert.Len(t, id, 36)
		assert.Equal(t, id, b())
	}
}
