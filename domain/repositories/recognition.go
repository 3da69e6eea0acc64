package repositories

import (
	"context"

	"github.com/sproutyapp/server/domain/entities"
)

// PlantRecognizer identifies a species from a photo. Backed by an external
// recognition API; consumed as a contract only.
type PlantRecognizer interface {
	IdentifySpecies(ctx context.Context, image []byte) (speciesName string, err error)
}

// CareProfileSource generates a care profile for a species that has no
// stored thresholds yet. Backed by an external AI collaborator.
type CareProfileSource interface {
	FetchCareProfile(ctx context.Context, speciesName string) (*entities.SpeciesProfile, error)
}
