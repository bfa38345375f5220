package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tea-techniques-api/models"
)

func intPtr(n int) *int { return &n }

func sampleRecord(name string) *models.TechniqueRecord {
	return &models.TechniqueRecord{
		Name:             name,
		Description:      "A sample technique.",
		ModelDependency:  string(models.ModelAgnostic),
		AssuranceGoals:   []string{"Fairness"},
		CategoryTags:     "Fairness/Bias Detection/Statistical Parity",
		Tags:             []string{"bias", "metrics"},
		ComplexityRating: intPtr(2),
		Limitations:      models.LimitationList{"Needs labelled outcomes."},
		Resources: []models.ResourceRecord{
			{Type: "Paper", URL: "https://example.org/paper"},
		},
	}
}

func TestCreateAndGetTechnique(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord("Statistical Parity Difference"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.Categories, 1)
	assert.Len(t, created.SubCategories, 1)
	assert.Len(t, created.Tags, 2)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Statistical Parity Difference", got.Name)
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, sampleRecord("Duplicate Me"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, sampleRecord("Duplicate Me"))
	require.Error(t, err)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "Conflict", apiErr.ErrorType)
}

func TestCreateRejectsOutOfRangeRating(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)

	rec := sampleRecord("Bad Rating")
	rec.ComplexityRating = intPtr(7)
	_, err := svc.Create(context.Background(), rec)
	require.Error(t, err)

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ValidationError", apiErr.ErrorType)
	assert.Contains(t, apiErr.Fields, "complexity_rating")
}

func TestUpdateReplacesCollections(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord("Replace Me"))
	require.NoError(t, err)

	rec := sampleRecord("Replace Me")
	rec.Tags = []string{"only-tag"}
	rec.Limitations = models.LimitationList{"New limitation A.", "New limitation B."}
	rec.Resources = nil

	updated, err := svc.Update(ctx, created.ID, rec)
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "only-tag", updated.Tags[0].Name)
	assert.Len(t, updated.Limitations, 2)
	assert.Empty(t, updated.Resources)
}

func TestPartialUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord("Patch Me"))
	require.NoError(t, err)

	patched, err := svc.PartialUpdate(ctx, created.ID, &models.TechniqueRecord{
		Description: "Patched description.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Patched description.", patched.Description)
	assert.Equal(t, "Patch Me", patched.Name)
	assert.Len(t, patched.Tags, 2)
	assert.Len(t, patched.Limitations, 1)
	require.NotNil(t, patched.ComplexityRating)
	assert.Equal(t, 2, *patched.ComplexityRating)
}

func TestPartialUpdateReplacesProvidedCollections(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord("Patch Tags"))
	require.NoError(t, err)

	patched, err := svc.PartialUpdate(ctx, created.ID, &models.TechniqueRecord{
		Tags: []string{"replacement"},
	})
	require.NoError(t, err)
	require.Len(t, patched.Tags, 1)
	assert.Equal(t, "replacement", patched.Tags[0].Name)
	// Untouched collections survive.
	assert.Len(t, patched.Resources, 1)
}

func TestDeleteCascadesToOwnedChildren(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleRecord("Delete Me"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)

	var limitations, resources, joins int64
	store.DB.Model(&models.TechniqueLimitation{}).Count(&limitations)
	store.DB.Model(&models.TechniqueResource{}).Count(&resources)
	store.DB.Table("technique_tag").Count(&joins)
	assert.Zero(t, limitations)
	assert.Zero(t, resources)
	assert.Zero(t, joins)

	// Taxonomy rows are shared vocabulary and survive the delete.
	var goals, categories, tags int64
	store.DB.Model(&models.AssuranceGoal{}).Count(&goals)
	store.DB.Model(&models.Category{}).Count(&categories)
	store.DB.Model(&models.Tag{}).Count(&tags)
	assert.Equal(t, int64(1), goals)
	assert.Equal(t, int64(1), categories)
	assert.Equal(t, int64(2), tags)
}

func TestDeleteMissingTechniqueIsNotFound(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)

	err := svc.Delete(context.Background(), 12345)
	require.Error(t, err)
}

func TestListFiltersByGoalAndSearch(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)
	ctx := context.Background()

	fair := sampleRecord("Fairness Audit")
	_, err := svc.Create(ctx, fair)
	require.NoError(t, err)

	priv := sampleRecord("Differential Privacy")
	priv.AssuranceGoals = []string{"Privacy"}
	priv.CategoryTags = "Privacy/Noise Injection"
	priv.Tags = nil
	_, err = svc.Create(ctx, priv)
	require.NoError(t, err)

	goal, err := store.Taxonomy.GetOrCreateGoal(ctx, "Privacy", "")
	require.NoError(t, err)

	results, total, err := svc.List(ctx, &models.TechniqueListParams{
		AssuranceGoals: []uint{goal.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Differential Privacy", results[0].Name)

	results, total, err = svc.List(ctx, &models.TechniqueListParams{Search: "audit"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Fairness Audit", results[0].Name)
}

func TestListRejectsUnknownOrdering(t *testing.T) {
	store := newTestStore(t)
	svc := NewTechniqueService(store)

	_, _, err := svc.List(context.Background(), &models.TechniqueListParams{Ordering: "password"})
	require.Error(t, err)
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ValidationError", apiErr.ErrorType)
}
