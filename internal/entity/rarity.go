package entity

import "github.com/mushroomhunter/backend/pkg/enum"

type Rarity string

var (
	RarityCommon    = enum.New(Rarity("common"))
	RarityUncommon  = enum.New(Rarity("uncommon"))
	RarityRare      = enum.New(Rarity("rare"))
	RarityVeryRare  = enum.New(Rarity("very_rare"))
	RarityLegendary = enum.New(Rarity("legendary"))
)

// Tier returns the position of the rarity in the ascending rarity order, or
// -1 if the rarity is unknown.
func (r Rarity) Tier() int {
	for i, v := range enum.Values[Rarity]() {
		if v == r {
			return i
		}
	}

	return -1
}

// AtLeast reports whether r is a known rarity not lower than min.
func (r Rarity) AtLeast(min Rarity) bool {
	tier := r.Tier()
	return tier >= 0 && tier >= min.Tier()
}
