package service

import (
	"context"

	"github.com/safebite/safebite/backend/internal/logging"
	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// ReferenceService reads the shared allergen and educational collections.
type ReferenceService struct {
	store store.Store
}

var _ IReferenceService = (*ReferenceService)(nil)

func NewReferenceService(s store.Store) *ReferenceService {
	return &ReferenceService{store: s}
}

func (s *ReferenceService) ListAllergens(ctx context.Context) ([]models.Document, error) {
	return s.list(ctx, store.AllergensCollection)
}

// GetAllergen returns one allergen or store.ErrNotFound. Malformed ids are
// reported as not found.
func (s *ReferenceService) GetAllergen(ctx context.Context, id string) (models.Document, error) {
	p, err := store.AllergenPath(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return s.store.Get(ctx, p)
}

// AllergenCatalog returns the allergens usable as analysis context; records
// without an id or name are skipped.
func (s *ReferenceService) AllergenCatalog(ctx context.Context) ([]models.Allergen, error) {
	docs, err := s.ListAllergens(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]models.Allergen, 0, len(docs))
	for _, d := range docs {
		a, ok := models.AllergenFromDocument(d)
		if !ok {
			logging.FromContext(ctx).WithField("allergen", d).Debug("skipping allergen without id or name")
			continue
		}
		catalog = append(catalog, a)
	}
	return catalog, nil
}

func (s *ReferenceService) ListEducationalResources(ctx context.Context) ([]models.Document, error) {
	return s.list(ctx, store.EducationalResourcesCollection)
}

func (s *ReferenceService) list(ctx context.Context, collection string) ([]models.Document, error) {
	docs, err := store.AllData(s.store.Stream(ctx, collection))
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}
