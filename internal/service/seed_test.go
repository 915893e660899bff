package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

const seedJSON = `{
	"allergens": [
		{"id": "lupin", "name": "Lupin", "commonNames": ["lupine"]},
		{"id": "mustard", "name": "Mustard"}
	],
	"educational_resources": [
		{"id": "label-reading", "title": "Reading labels"},
		{"title": "Cross-contact at restaurants"}
	]
}`

func TestSeedReference(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	seed, err := DecodeReferenceSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	res, err := SeedReference(ctx, s, seed)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Allergens: 2, EducationalResources: 2}, res)

	ref := NewReferenceService(s)
	lupin, err := ref.GetAllergen(ctx, "lupin")
	require.NoError(t, err)
	assert.Equal(t, "Lupin", lupin.String("name"))

	resources, err := ref.ListEducationalResources(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 2)

	// reseeding overwrites keyed documents
	_, err = SeedReference(ctx, s, &ReferenceSeed{Allergens: seed.Allergens[:1]})
	require.NoError(t, err)
	allergens, err := ref.ListAllergens(ctx)
	require.NoError(t, err)
	assert.Len(t, allergens, 2)
}

func TestSeedReferenceRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := SeedReference(ctx, s, &ReferenceSeed{Allergens: []models.Document{{"name": "No id"}}})
	assert.ErrorIs(t, err, store.ErrInvalidPath)

	_, err = SeedReference(ctx, s, &ReferenceSeed{EducationalResources: []models.Document{{"id": "a/b"}}})
	assert.ErrorIs(t, err, store.ErrInvalidPath)

	_, err = DecodeReferenceSeed(strings.NewReader("{"))
	assert.Error(t, err)
}
