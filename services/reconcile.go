package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

// categoryPath is one resolved fragment of a category_tags string.
type categoryPath struct {
	Goal        string
	Category    string
	SubCategory string
}

// parseCategoryTags splits a comma-separated list of "Goal/Category" or
// "Goal/Category/SubCategory" fragments. Fragments with fewer than two
// path elements are dropped; extra elements beyond three are ignored.
func parseCategoryTags(raw string) []categoryPath {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var paths []categoryPath
	for _, fragment := range strings.Split(raw, ",") {
		parts := strings.Split(fragment, "/")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		path := categoryPath{Goal: parts[0], Category: parts[1]}
		if len(parts) >= 3 && parts[2] != "" {
			path.SubCategory = parts[2]
		}
		paths = append(paths, path)
	}
	return paths
}

// validateRecord enforces the field-level invariants shared by the
// importer and the technique mutation endpoints.
func validateRecord(rec *models.TechniqueRecord) *models.APIError {
	fields := map[string][]string{}

	if strings.TrimSpace(rec.Name) == "" {
		fields["name"] = append(fields["name"], "name is required")
	}
	if strings.TrimSpace(rec.Description) == "" {
		fields["description"] = append(fields["description"], "description is required")
	}
	if rec.ModelDependency != string(models.ModelAgnostic) && rec.ModelDependency != string(models.ModelSpecific) {
		fields["model_dependency"] = append(fields["model_dependency"],
			fmt.Sprintf("model_dependency must be %q or %q", models.ModelAgnostic, models.ModelSpecific))
	}
	if rec.ComplexityRating != nil && (*rec.ComplexityRating < models.RatingMin || *rec.ComplexityRating > models.RatingMax) {
		fields["complexity_rating"] = append(fields["complexity_rating"], "rating must be between 1 and 5")
	}
	if rec.ComputationalCostRating != nil && (*rec.ComputationalCostRating < models.RatingMin || *rec.ComputationalCostRating > models.RatingMax) {
		fields["computational_cost_rating"] = append(fields["computational_cost_rating"], "rating must be between 1 and 5")
	}
	for i, attr := range rec.Attributes {
		if strings.TrimSpace(attr.Type) == "" || strings.TrimSpace(attr.Value) == "" {
			fields["attributes"] = append(fields["attributes"],
				fmt.Sprintf("attribute %d requires type and value", i))
		}
	}
	for i, uc := range rec.ExampleUseCases {
		if strings.TrimSpace(uc.Description) == "" {
			fields["example_use_cases"] = append(fields["example_use_cases"],
				fmt.Sprintf("example use case %d requires a description", i))
		}
	}
	for i, res := range rec.Resources {
		if strings.TrimSpace(res.Type) == "" {
			fields["resources"] = append(fields["resources"],
				fmt.Sprintf("resource %d requires a type", i))
		}
		if strings.TrimSpace(res.URL) == "" {
			fields["resources"] = append(fields["resources"],
				fmt.Sprintf("resource %d requires a url", i))
		} else if u, err := url.Parse(res.URL); err != nil || u.Scheme == "" || u.Host == "" {
			fields["resources"] = append(fields["resources"],
				fmt.Sprintf("resource %d has a malformed url", i))
		}
	}

	if len(fields) > 0 {
		return models.NewValidationError(fields)
	}
	return nil
}

// reconciler applies technique records against the store. All methods
// must run inside the caller's transaction.
type reconciler struct {
	store *repositories.Store
}

// upsertByName locates a technique by its unique name, creating it if
// absent, and applies the full record. Reports whether a row was created.
func (r *reconciler) upsertByName(ctx context.Context, rec *models.TechniqueRecord) (bool, error) {
	technique, err := r.store.Techniques.LockByName(ctx, rec.Name)
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		technique = &models.Technique{Name: rec.Name}
		created = true
	} else if err != nil {
		return false, err
	}
	return created, r.apply(ctx, technique, rec)
}

// apply overwrites the technique's scalar fields and replaces every
// association and owned child collection from the record.
func (r *reconciler) apply(ctx context.Context, technique *models.Technique, rec *models.TechniqueRecord) error {
	if err := r.applyScalars(ctx, technique, rec); err != nil {
		return err
	}
	if err := r.applyGoals(ctx, technique, rec.AssuranceGoals); err != nil {
		return err
	}
	if err := r.applyCategoryTags(ctx, technique, rec.CategoryTags); err != nil {
		return err
	}
	if err := r.applyTags(ctx, technique, rec.Tags); err != nil {
		return err
	}
	if err := r.applyAttributes(ctx, technique, rec.Attributes); err != nil {
		return err
	}
	if err := r.applyUseCases(ctx, technique, rec.ExampleUseCases); err != nil {
		return err
	}
	if err := r.applyLimitations(ctx, technique, rec.Limitations); err != nil {
		return err
	}
	return r.applyResources(ctx, technique, rec.Resources)
}

func (r *reconciler) applyScalars(ctx context.Context, technique *models.Technique, rec *models.TechniqueRecord) error {
	technique.Name = rec.Name
	technique.Description = rec.Description
	technique.ModelDependency = models.ModelDependency(rec.ModelDependency)
	technique.ComplexityRating = rec.ComplexityRating
	technique.ComputationalCostRating = rec.ComputationalCostRating
	technique.ApplicableModels = models.StringList(rec.ApplicableModels)

	if technique.ID == 0 {
		return r.store.Techniques.Create(ctx, technique)
	}
	return r.store.Techniques.Save(ctx, technique)
}

func (r *reconciler) applyGoals(ctx context.Context, technique *models.Technique, names []string) error {
	goals := make([]models.AssuranceGoal, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !models.IsCanonicalGoalName(name) {
			log.Warn().Str("technique", technique.Name).Str("goal", name).
				Msg("assurance goal outside the canonical set")
		}
		goal, err := r.store.Taxonomy.GetOrCreateGoal(ctx, name, "")
		if err != nil {
			return err
		}
		goals = append(goals, *goal)
	}
	return r.store.Techniques.ReplaceGoals(ctx, technique, goals)
}

// applyCategoryTags resolves each path fragment, creating missing goal,
// category and subcategory rows, and replaces both taxonomy link sets.
// Linking a subcategory always links its parent category too.
func (r *reconciler) applyCategoryTags(ctx context.Context, technique *models.Technique, raw string) error {
	var categories []models.Category
	var subcategories []models.SubCategory
	seenCategories := map[uint]bool{}
	seenSubCategories := map[uint]bool{}

	for _, path := range parseCategoryTags(raw) {
		goal, err := r.store.Taxonomy.GetOrCreateGoal(ctx, path.Goal, "")
		if err != nil {
			return err
		}
		category, err := r.store.Taxonomy.GetOrCreateCategory(ctx, path.Category, goal.ID)
		if err != nil {
			return err
		}
		if !seenCategories[category.ID] {
			seenCategories[category.ID] = true
			categories = append(categories, *category)
		}
		if path.SubCategory != "" {
			subcategory, err := r.store.Taxonomy.GetOrCreateSubCategory(ctx, path.SubCategory, category.ID)
			if err != nil {
				return err
			}
			if !seenSubCategories[subcategory.ID] {
				seenSubCategories[subcategory.ID] = true
				subcategories = append(subcategories, *subcategory)
			}
		}
	}

	if err := r.store.Techniques.ReplaceCategories(ctx, technique, categories); err != nil {
		return err
	}
	return r.store.Techniques.ReplaceSubCategories(ctx, technique, subcategories)
}

func (r *reconciler) applyTags(ctx context.Context, technique *models.Technique, names []string) error {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := r.store.Taxonomy.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return r.store.Techniques.ReplaceTags(ctx, technique, tags)
}

func (r *reconciler) applyAttributes(ctx context.Context, technique *models.Technique, records []models.AttributeRecord) error {
	values := make([]models.AttributeValue, 0, len(records))
	for _, rec := range records {
		at, err := r.store.Taxonomy.GetOrCreateAttributeType(ctx, rec.Type)
		if err != nil {
			return err
		}
		values = append(values, models.AttributeValue{
			Name:            rec.Value,
			Description:     rec.Description,
			AttributeTypeID: at.ID,
		})
	}
	return r.store.Techniques.ReplaceAttributeValues(ctx, technique, values)
}

func (r *reconciler) applyUseCases(ctx context.Context, technique *models.Technique, records []models.UseCaseRecord) error {
	useCases := make([]models.TechniqueExampleUseCase, 0, len(records))
	for _, rec := range records {
		uc := models.TechniqueExampleUseCase{Description: rec.Description}
		if name := strings.TrimSpace(rec.Goal); name != "" {
			goal, err := r.store.Taxonomy.GetOrCreateGoal(ctx, name, "")
			if err != nil {
				return err
			}
			uc.AssuranceGoalID = &goal.ID
		}
		useCases = append(useCases, uc)
	}
	return r.store.Techniques.ReplaceUseCases(ctx, technique, useCases)
}

func (r *reconciler) applyLimitations(ctx context.Context, technique *models.Technique, items models.LimitationList) error {
	limitations := make([]models.TechniqueLimitation, 0, len(items))
	for _, description := range items {
		limitations = append(limitations, models.TechniqueLimitation{Description: description})
	}
	return r.store.Techniques.ReplaceLimitations(ctx, technique, limitations)
}

func (r *reconciler) applyResources(ctx context.Context, technique *models.Technique, records []models.ResourceRecord) error {
	resources := make([]models.TechniqueResource, 0, len(records))
	for _, rec := range records {
		rt, err := r.store.Taxonomy.GetOrCreateResourceType(ctx, rec.Type)
		if err != nil {
			return err
		}
		resources = append(resources, models.TechniqueResource{
			Title:           rec.Title,
			URL:             rec.URL,
			Description:     rec.Description,
			Authors:         rec.Authors,
			PublicationDate: rec.PublicationDate,
			SourceType:      rec.SourceType,
			ResourceTypeID:  rt.ID,
		})
	}
	return r.store.Techniques.ReplaceResources(ctx, technique, resources)
}
