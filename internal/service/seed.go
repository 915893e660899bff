package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// ReferenceSeed is the file format of the reference data loader.
type ReferenceSeed struct {
	Allergens            []models.Document `json:"allergens"`
	EducationalResources []models.Document `json:"educational_resources"`
}

// SeedResult counts the documents written by SeedReference.
type SeedResult struct {
	Allergens            int
	EducationalResources int
}

// DecodeReferenceSeed reads a ReferenceSeed from r.
func DecodeReferenceSeed(r io.Reader) (*ReferenceSeed, error) {
	var seed ReferenceSeed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode reference data: %w", err)
	}
	return &seed, nil
}

// SeedReference writes the seed into the shared collections. Allergens are
// keyed by their "id" field, which is required. Educational resources with
// an "id" overwrite that document; the rest get generated ids.
func SeedReference(ctx context.Context, s store.Store, seed *ReferenceSeed) (SeedResult, error) {
	var res SeedResult
	for i, a := range seed.Allergens {
		id := a.String("id")
		p, err := store.AllergenPath(id)
		if err != nil {
			return res, fmt.Errorf("allergen %d: %w", i, err)
		}
		if err := s.Set(ctx, p, a); err != nil {
			return res, err
		}
		res.Allergens++
	}

	for i, r := range seed.EducationalResources {
		if id := r.String("id"); id != "" {
			if err := store.ValidateID(id); err != nil {
				return res, fmt.Errorf("educational resource %d: %w", i, err)
			}
			if err := s.Set(ctx, store.Join(store.EducationalResourcesCollection, id), r); err != nil {
				return res, err
			}
		} else if _, err := s.Add(ctx, store.EducationalResourcesCollection, r); err != nil {
			return res, err
		}
		res.EducationalResources++
	}
	return res, nil
}
