package services

import (
	"context"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

type TechniqueService interface {
	List(ctx context.Context, params *models.TechniqueListParams) ([]models.Technique, int64, error)
	Get(ctx context.Context, id uint) (*models.Technique, error)
	Create(ctx context.Context, rec *models.TechniqueRecord) (*models.Technique, error)
	Update(ctx context.Context, id uint, rec *models.TechniqueRecord) (*models.Technique, error)
	PartialUpdate(ctx context.Context, id uint, rec *models.TechniqueRecord) (*models.Technique, error)
	Delete(ctx context.Context, id uint) error
}

type techniqueService struct {
	store *repositories.Store
}

func NewTechniqueService(store *repositories.Store) TechniqueService {
	return &techniqueService{store: store}
}

func (s *techniqueService) List(ctx context.Context, params *models.TechniqueListParams) ([]models.Technique, int64, error) {
	params.Normalize()
	if !repositories.ValidOrdering(params.Ordering) {
		return nil, 0, models.NewFieldError("ordering", "invalid ordering field")
	}
	return s.store.Techniques.GetList(ctx, *params)
}

func (s *techniqueService) Get(ctx context.Context, id uint) (*models.Technique, error) {
	return s.store.Techniques.GetByID(ctx, id)
}

func (s *techniqueService) Create(ctx context.Context, rec *models.TechniqueRecord) (*models.Technique, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	var id uint
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Techniques.GetByName(ctx, rec.Name); err == nil {
			return models.NewConflict("technique with this name already exists")
		}
		technique := &models.Technique{}
		r := &reconciler{store: tx}
		if err := r.apply(ctx, technique, rec); err != nil {
			return err
		}
		id = technique.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Techniques.GetByID(ctx, id)
}

// Update replaces the technique wholesale: scalars overwritten, every
// association and child collection replaced from the record.
func (s *techniqueService) Update(ctx context.Context, id uint, rec *models.TechniqueRecord) (*models.Technique, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Techniques.LockByID(ctx, id); err != nil {
			return err
		}
		technique, err := tx.Techniques.GetByID(ctx, id)
		if err != nil {
			return err
		}
		r := &reconciler{store: tx}
		return r.apply(ctx, technique, rec)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Techniques.GetByID(ctx, id)
}

// PartialUpdate applies only the fields present in the record. Nested
// collections that are present still replace the stored set wholesale.
func (s *techniqueService) PartialUpdate(ctx context.Context, id uint, rec *models.TechniqueRecord) (*models.Technique, error) {
	if err := validatePartialRecord(rec); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Techniques.LockByID(ctx, id); err != nil {
			return err
		}
		technique, err := tx.Techniques.GetByID(ctx, id)
		if err != nil {
			return err
		}
		r := &reconciler{store: tx}

		if rec.Name != "" {
			technique.Name = rec.Name
		}
		if rec.Description != "" {
			technique.Description = rec.Description
		}
		if rec.ModelDependency != "" {
			technique.ModelDependency = models.ModelDependency(rec.ModelDependency)
		}
		if rec.ComplexityRating != nil {
			technique.ComplexityRating = rec.ComplexityRating
		}
		if rec.ComputationalCostRating != nil {
			technique.ComputationalCostRating = rec.ComputationalCostRating
		}
		if rec.ApplicableModels != nil {
			technique.ApplicableModels = models.StringList(rec.ApplicableModels)
		}
		if err := tx.Techniques.Save(ctx, technique); err != nil {
			return err
		}

		if rec.AssuranceGoals != nil {
			if err := r.applyGoals(ctx, technique, rec.AssuranceGoals); err != nil {
				return err
			}
		}
		if rec.CategoryTags != "" {
			if err := r.applyCategoryTags(ctx, technique, rec.CategoryTags); err != nil {
				return err
			}
		}
		if rec.Tags != nil {
			if err := r.applyTags(ctx, technique, rec.Tags); err != nil {
				return err
			}
		}
		if rec.Attributes != nil {
			if err := r.applyAttributes(ctx, technique, rec.Attributes); err != nil {
				return err
			}
		}
		if rec.ExampleUseCases != nil {
			if err := r.applyUseCases(ctx, technique, rec.ExampleUseCases); err != nil {
				return err
			}
		}
		if rec.Limitations != nil {
			if err := r.applyLimitations(ctx, technique, rec.Limitations); err != nil {
				return err
			}
		}
		if rec.Resources != nil {
			if err := r.applyResources(ctx, technique, rec.Resources); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Techniques.GetByID(ctx, id)
}

func (s *techniqueService) Delete(ctx context.Context, id uint) error {
	return s.store.Techniques.Delete(ctx, id)
}

// validatePartialRecord checks only fields that are present.
func validatePartialRecord(rec *models.TechniqueRecord) *models.APIError {
	full := *rec
	if full.Name == "" {
		full.Name = "-"
	}
	if full.Description == "" {
		full.Description = "-"
	}
	if full.ModelDependency == "" {
		full.ModelDependency = string(models.ModelAgnostic)
	}
	return validateRecord(&full)
}
