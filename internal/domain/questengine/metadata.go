package questengine

import (
	"fmt"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/mushroomhunter/backend/internal/entity"
)

// Metadata is the typed payload of a requirement, one type per requirement
// type.
type Metadata interface {
	RequirementType() entity.RequirementType
}

// CountMetadata is used by requirements which only count events.
type CountMetadata struct {
	For entity.RequirementType `structs:"-"`
}

func (m CountMetadata) RequirementType() entity.RequirementType {
	return m.For
}

// SpeciesMetadata tracks the distinct mushrooms seen by an identify_species
// requirement.
type SpeciesMetadata struct {
	UniqueSpecies []string `structs:"unique_species"`
}

func (SpeciesMetadata) RequirementType() entity.RequirementType {
	return entity.RequirementIdentifySpecies
}

type ZoneMetadata struct {
	Zones []string `structs:"zones"`
}

func (ZoneMetadata) RequirementType() entity.RequirementType {
	return entity.RequirementVisitLocation
}

type RarityMetadata struct {
	MinRarity entity.Rarity `structs:"min_rarity"`
}

func (RarityMetadata) RequirementType() entity.RequirementType {
	return entity.RequirementFindRarity
}

func DecodeMetadata(req entity.Requirement) (Metadata, error) {
	switch req.Type {
	case entity.RequirementIdentifySpecies:
		m := SpeciesMetadata{}
		if err := decode(req.Metadata, &m); err != nil {
			return nil, err
		}
		return m, nil

	case entity.RequirementVisitLocation:
		m := ZoneMetadata{}
		if err := decode(req.Metadata, &m); err != nil {
			return nil, err
		}
		return m, nil

	case entity.RequirementFindRarity:
		m := RarityMetadata{MinRarity: entity.RarityRare}
		if err := decode(req.Metadata, &m); err != nil {
			return nil, err
		}
		return m, nil

	case entity.RequirementFindMushroom, entity.RequirementShareSpot:
		return CountMetadata{For: req.Type}, nil
	}

	return nil, fmt.Errorf("unknown requirement type %s", req.Type)
}

func EncodeMetadata(m Metadata) entity.Map {
	if _, ok := m.(CountMetadata); ok {
		return nil
	}

	return entity.Map(structs.Map(m))
}

func decode(input entity.Map, output any) error {
	if len(input) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "structs",
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(input))
}
