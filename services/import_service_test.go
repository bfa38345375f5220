package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tea-techniques-api/models"
)

const shapCatalog = `[
  {
    "name": "SHapley Additive exPlanations",
    "description": "Attributes a model prediction to its input features using Shapley values.",
    "model_dependency": "Model-Agnostic",
    "assurance_goals": ["Explainability"],
    "category_tags": "Explainability/Feature Analysis/Importance and Attribution",
    "tags": ["interpretability", "post-hoc"],
    "complexity_rating": 3,
    "computational_cost_rating": 4,
    "applicable_models": ["tree-ensemble", "neural-network"],
    "attributes": [
      {"type": "Scope", "value": "Local and Global"}
    ],
    "example_use_cases": [
      {"description": "Explaining individual credit decisions.", "goal": "Explainability"}
    ],
    "limitations": [
      "Assumes feature independence.",
      "Exact computation is exponential in feature count."
    ],
    "resources": [
      {"type": "Paper", "title": "A Unified Approach to Interpreting Model Predictions", "url": "https://arxiv.org/abs/1705.07874"}
    ]
  }
]`

func TestImportCreatesFullRecord(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	summary, err := svc.Import(context.Background(), strings.NewReader(shapCatalog), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Empty(t, summary.Errors)

	technique, err := store.Techniques.GetByName(context.Background(), "SHapley Additive exPlanations")
	require.NoError(t, err)
	full, err := store.Techniques.GetByID(context.Background(), technique.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ModelAgnostic, full.ModelDependency)
	require.NotNil(t, full.ComplexityRating)
	assert.Equal(t, 3, *full.ComplexityRating)
	assert.Equal(t, models.StringList{"tree-ensemble", "neural-network"}, full.ApplicableModels)

	require.Len(t, full.AssuranceGoals, 1)
	assert.Equal(t, "Explainability", full.AssuranceGoals[0].Name)
	require.Len(t, full.Categories, 1)
	assert.Equal(t, "Feature Analysis", full.Categories[0].Name)
	require.Len(t, full.SubCategories, 1)
	assert.Equal(t, "Importance and Attribution", full.SubCategories[0].Name)
	assert.Len(t, full.Tags, 2)
	assert.Len(t, full.AttributeValues, 1)
	assert.Len(t, full.ExampleUseCases, 1)
	assert.Len(t, full.Limitations, 2)
	require.Len(t, full.Resources, 1)
	assert.Equal(t, "https://arxiv.org/abs/1705.07874", full.Resources[0].URL)
}

func TestImportIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(shapCatalog), ImportOptions{})
	require.NoError(t, err)

	summary, err := svc.Import(ctx, strings.NewReader(shapCatalog), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	var techniques, goals, categories, limitations int64
	store.DB.Model(&models.Technique{}).Count(&techniques)
	store.DB.Model(&models.AssuranceGoal{}).Count(&goals)
	store.DB.Model(&models.Category{}).Count(&categories)
	store.DB.Model(&models.TechniqueLimitation{}).Count(&limitations)
	assert.Equal(t, int64(1), techniques)
	assert.Equal(t, int64(1), goals)
	assert.Equal(t, int64(1), categories)
	assert.Equal(t, int64(2), limitations)
}

func TestImportReplacesLimitations(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader(shapCatalog), ImportOptions{})
	require.NoError(t, err)

	revised := `[{
		"name": "SHapley Additive exPlanations",
		"description": "Revised description.",
		"model_dependency": "Model-Agnostic",
		"limitations": ["Only the surviving limitation."]
	}]`
	_, err = svc.Import(ctx, strings.NewReader(revised), ImportOptions{})
	require.NoError(t, err)

	technique, err := store.Techniques.GetByName(ctx, "SHapley Additive exPlanations")
	require.NoError(t, err)
	full, err := store.Techniques.GetByID(ctx, technique.ID)
	require.NoError(t, err)

	assert.Equal(t, "Revised description.", full.Description)
	require.Len(t, full.Limitations, 1)
	assert.Equal(t, "Only the surviving limitation.", full.Limitations[0].Description)
	// Collections absent from the record are cleared, not preserved.
	assert.Empty(t, full.Tags)
	assert.Empty(t, full.Resources)
}

func TestImportPipeDelimitedLimitations(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `[{
		"name": "Counterfactual Explanations",
		"description": "Finds minimal input changes that flip a prediction.",
		"model_dependency": "Model-Agnostic",
		"limitations": "May produce implausible inputs. | Sensitive to the distance metric. |"
	}]`
	summary, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	technique, err := store.Techniques.GetByName(context.Background(), "Counterfactual Explanations")
	require.NoError(t, err)
	full, err := store.Techniques.GetByID(context.Background(), technique.ID)
	require.NoError(t, err)

	require.Len(t, full.Limitations, 2)
	assert.Equal(t, "May produce implausible inputs.", full.Limitations[0].Description)
	assert.Equal(t, "Sensitive to the distance metric.", full.Limitations[1].Description)
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `[
		{"name": "Bad Rating", "description": "x", "model_dependency": "Model-Agnostic", "complexity_rating": 9},
		{"name": "Good Technique", "description": "x", "model_dependency": "Model-Specific"}
	]`
	var progress bytes.Buffer
	summary, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{Progress: &progress})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Bad Rating", summary.Errors[0].Name)
	assert.Equal(t, "ValidationError", summary.Errors[0].Kind)
	assert.Contains(t, progress.String(), "Bad Rating: skipped")

	_, err = store.Techniques.GetByName(context.Background(), "Good Technique")
	assert.NoError(t, err)
	_, err = store.Techniques.GetByName(context.Background(), "Bad Rating")
	assert.Error(t, err)
}

func TestImportRejectsDuplicateResourcesWithinRecord(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `[{
		"name": "Duplicate Resources",
		"description": "x",
		"model_dependency": "Model-Agnostic",
		"resources": [
			{"type": "Paper", "title": "First", "url": "https://example.org/same"},
			{"type": "Paper", "title": "Second", "url": "https://example.org/same"}
		]
	}]`
	summary, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Conflict", summary.Errors[0].Kind)

	// The savepoint rollback leaves no trace of the record.
	_, err = store.Techniques.GetByName(context.Background(), "Duplicate Resources")
	assert.Error(t, err)
}

func TestImportRejectsDuplicateAttributesWithinRecord(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `[{
		"name": "Duplicate Attributes",
		"description": "x",
		"model_dependency": "Model-Agnostic",
		"attributes": [
			{"type": "Scope", "value": "Global"},
			{"type": "Scope", "value": "Global"}
		]
	}]`
	summary, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Conflict", summary.Errors[0].Kind)

	_, err = store.Techniques.GetByName(context.Background(), "Duplicate Attributes")
	assert.Error(t, err)
}

func TestImportStrictRollsBackEverything(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `[
		{"name": "First", "description": "x", "model_dependency": "Model-Agnostic"},
		{"name": "Broken", "description": "", "model_dependency": "Model-Agnostic"}
	]`
	_, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{Strict: true})
	require.Error(t, err)

	var count int64
	store.DB.Model(&models.Technique{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImportAcceptsWrapperObject(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	catalog := `{"techniques": [
		{"name": "Wrapped", "description": "x", "model_dependency": "Model-Agnostic"}
	]}`
	summary, err := svc.Import(context.Background(), strings.NewReader(catalog), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	store := newTestStore(t)
	svc := NewImportService(store)

	_, err := svc.Import(context.Background(), strings.NewReader("{not json"), ImportOptions{})
	require.Error(t, err)

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
	assert.Equal(t, "UnprocessableEntity", apiErr.ErrorType)
}
