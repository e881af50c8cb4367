package world

import (
	"math/rand"

	"github.com/google/uuid"
)

var (
	namePrefixes = []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	nameSuffixes = []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}
	polities = []string{
		"Dominion", "Compact", "League", "Throne", "Realm", "Concord",
		"March", "Covenant", "Crown", "Assembly",
	}
)

// Namer hands out procedural names from syllable pools. Province names are
// unique within one world until the pool runs out.
type Namer struct {
	rng  *rand.Rand
	used map[string]bool
}

// NewNamer returns a namer drawing from rng.
func NewNamer(rng *rand.Rand) *Namer {
	return &Namer{rng: rng, used: make(map[string]bool)}
}

// Province returns a place name such as "Ironhaven".
func (n *Namer) Province() string {
	capacity := len(namePrefixes) * len(nameSuffixes)
	for {
		name := n.syllables()
		if !n.used[name] || len(n.used) >= capacity {
			n.used[name] = true
			return name
		}
	}
}

// Faction returns a polity name such as "The Frostmoor Compact".
func (n *Namer) Faction() string {
	return "The " + n.syllables() + " " + polities[n.rng.Intn(len(polities))]
}

func (n *Namer) syllables() string {
	return namePrefixes[n.rng.Intn(len(namePrefixes))] + nameSuffixes[n.rng.Intn(len(nameSuffixes))]
}

// idSource returns a uuid generator reading from rng, so a seeded run
// reproduces its ids.
func idSource(rng *rand.Rand) func() string {
	return func() string {
		return uuid.Must(uuid.NewRandomFromReader(rng)).String()
	}
}
