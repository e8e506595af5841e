package scoring

import (
	"math"

	"github.com/mushroomhunter/backend/config"
	"github.com/mushroomhunter/backend/internal/entity"
)

// Conditions are the situational modifiers of a find.
type Conditions struct {
	IsFirstOfDay bool
	IsNewZone    bool
	PerfectPhoto bool
	GroupHunt    bool
	// WeatherBonus is ignored when it is not positive.
	WeatherBonus float64
}

type Model struct {
	basePoints        map[entity.Rarity]int
	defaultBasePoints int

	firstOfDay   float64
	newZone      float64
	perfectPhoto float64
	groupHunt    float64

	weatherBonuses map[string]float64
}

func NewModel(cfg config.ScoringConfigs) *Model {
	m := &Model{
		basePoints:        make(map[entity.Rarity]int, len(cfg.BasePoints)),
		defaultBasePoints: cfg.DefaultBasePoints,
		firstOfDay:        cfg.FirstOfDayMultiplier,
		newZone:           cfg.NewZoneMultiplier,
		perfectPhoto:      cfg.PerfectPhotoMultiplier,
		groupHunt:         cfg.GroupHuntMultiplier,
		weatherBonuses:    cfg.WeatherBonuses,
	}

	for rarity, points := range cfg.BasePoints {
		m.basePoints[entity.Rarity(rarity)] = points
	}

	return m
}

// BasePoints returns the points of the rarity tier, an unknown rarity falls
// back to the default base.
func (m *Model) BasePoints(rarity entity.Rarity) int {
	if points, ok := m.basePoints[rarity]; ok {
		return points
	}

	return m.defaultBasePoints
}

// ComputePoints applies the multipliers in a fixed order and rounds half up.
func (m *Model) ComputePoints(rarity entity.Rarity, conditions Conditions) int {
	points := float64(m.BasePoints(rarity))

	if conditions.IsFirstOfDay {
		points *= m.firstOfDay
	}

	if conditions.IsNewZone {
		points *= m.newZone
	}

	if conditions.PerfectPhoto {
		points *= m.perfectPhoto
	}

	if conditions.GroupHunt {
		points *= m.groupHunt
	}

	if conditions.WeatherBonus > 0 {
		points *= conditions.WeatherBonus
	}

	if points <= 0 {
		return 0
	}

	// Products such as 15*1.3 are not exact in binary, nudge them before
	// flooring so that x.5 always rounds up.
	return int(math.Floor(points + 0.5 + 1e-9))
}

// WeatherBonus maps a named weather condition to its multiplier, unknown
// conditions give no bonus.
func (m *Model) WeatherBonus(condition string) float64 {
	if bonus, ok := m.weatherBonuses[condition]; ok {
		return bonus
	}

	return 1
}
