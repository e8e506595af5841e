package questengine

import (
	"database/sql"
	"time"

	"github.com/mushroomhunter/backend/internal/entity"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"golang.org/x/exp/slices"
)

type Reward struct {
	Points      int
	Achievement string
}

// FindRequirement returns the index of the first requirement of the given
// type, or -1.
func FindRequirement(quest *entity.Quest, reqType entity.RequirementType) int {
	return slices.IndexFunc(quest.Requirements, func(r entity.Requirement) bool {
		return r.Type == reqType
	})
}

// UpdateRequirementProgress sets the progress of a requirement. The value is
// not clamped to the target, and updates on expired quests are recorded even
// though they can never complete.
func UpdateRequirementProgress(quest *entity.Quest, index, value int) error {
	if index < 0 || index >= len(quest.Requirements) {
		return errorx.New(errorx.BadRequest, "Requirement index %d is out of range", index)
	}

	if value < 0 {
		return errorx.New(errorx.BadRequest, "Requirement progress must not be negative")
	}

	quest.Requirements[index].Current = value
	return nil
}

// EvaluateCompletion completes the quest the first time all requirements are
// satisfied before it expires. The caller applies the returned reward.
func EvaluateCompletion(quest *entity.Quest, now time.Time) (Reward, bool) {
	if quest.IsCompleted() || quest.IsExpired(now) {
		return Reward{}, false
	}

	for _, r := range quest.Requirements {
		if r.Current < r.Target {
			return Reward{}, false
		}
	}

	quest.CompletedAt = sql.NullTime{Valid: true, Time: now}

	return Reward{
		Points:      quest.RewardPoints,
		Achievement: quest.RewardAchievement.String,
	}, true
}

// TrackFind applies a find to every requirement type it is relevant for. It
// returns true if any progress changed.
func TrackFind(quest *entity.Quest, find *entity.Find, now time.Time) (bool, error) {
	if !isTrackable(quest, now) {
		return false, nil
	}

	changed := incrementFirst(quest, entity.RequirementFindMushroom)

	if i := FindRequirement(quest, entity.RequirementIdentifySpecies); i >= 0 {
		ok, err := trackDistinct(quest, i, find.MushroomID)
		if err != nil {
			return false, err
		}
		changed = changed || ok
	}

	if i := FindRequirement(quest, entity.RequirementVisitLocation); i >= 0 && find.Zone != "" {
		ok, err := trackDistinct(quest, i, find.Zone)
		if err != nil {
			return false, err
		}
		changed = changed || ok
	}

	if i := FindRequirement(quest, entity.RequirementFindRarity); i >= 0 {
		metadata, err := DecodeMetadata(quest.Requirements[i])
		if err != nil {
			return false, err
		}

		if find.Rarity.AtLeast(metadata.(RarityMetadata).MinRarity) {
			quest.Requirements[i].Current++
			changed = true
		}
	}

	return changed, nil
}

// TrackShare counts a shared spot.
func TrackShare(quest *entity.Quest, now time.Time) bool {
	if !isTrackable(quest, now) {
		return false
	}

	return incrementFirst(quest, entity.RequirementShareSpot)
}

func isTrackable(quest *entity.Quest, now time.Time) bool {
	return !quest.IsCompleted() && !quest.IsExpired(now)
}

func incrementFirst(quest *entity.Quest, reqType entity.RequirementType) bool {
	i := FindRequirement(quest, reqType)
	if i < 0 {
		return false
	}

	quest.Requirements[i].Current++
	return true
}

// trackDistinct adds value to the set kept in the requirement metadata and
// sets the progress to the size of the set.
func trackDistinct(quest *entity.Quest, index int, value string) (bool, error) {
	metadata, err := DecodeMetadata(quest.Requirements[index])
	if err != nil {
		return false, err
	}

	var seen []string
	switch m := metadata.(type) {
	case SpeciesMetadata:
		seen = m.UniqueSpecies
	case ZoneMetadata:
		seen = m.Zones
	}

	if slices.Contains(seen, value) {
		return false, nil
	}

	seen = append(seen, value)
	switch metadata.(type) {
	case SpeciesMetadata:
		metadata = SpeciesMetadata{UniqueSpecies: seen}
	case ZoneMetadata:
		metadata = ZoneMetadata{Zones: seen}
	}

	quest.Requirements[index].Metadata = EncodeMetadata(metadata)
	return true, UpdateRequirementProgress(quest, index, len(seen))
}
