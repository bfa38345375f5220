package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tea-techniques-api/models"
)

type TechniqueRepository interface {
	Create(ctx context.Context, technique *models.Technique) error
	Save(ctx context.Context, technique *models.Technique) error
	GetByID(ctx context.Context, id uint) (*models.Technique, error)
	GetByName(ctx context.Context, name string) (*models.Technique, error)
	// LockByName and LockByID reread the row under a row-level write
	// lock so concurrent writers to the same technique serialize.
	LockByName(ctx context.Context, name string) (*models.Technique, error)
	LockByID(ctx context.Context, id uint) (*models.Technique, error)
	GetList(ctx context.Context, params models.TechniqueListParams) ([]models.Technique, int64, error)
	Delete(ctx context.Context, id uint) error

	// Association and child-collection writes use replace semantics:
	// the stored set becomes exactly the given set.
	ReplaceGoals(ctx context.Context, technique *models.Technique, goals []models.AssuranceGoal) error
	ReplaceCategories(ctx context.Context, technique *models.Technique, categories []models.Category) error
	ReplaceSubCategories(ctx context.Context, technique *models.Technique, subcategories []models.SubCategory) error
	ReplaceTags(ctx context.Context, technique *models.Technique, tags []models.Tag) error
	ReplaceAttributeValues(ctx context.Context, technique *models.Technique, values []models.AttributeValue) error
	ReplaceResources(ctx context.Context, technique *models.Technique, resources []models.TechniqueResource) error
	ReplaceUseCases(ctx context.Context, technique *models.Technique, useCases []models.TechniqueExampleUseCase) error
	ReplaceLimitations(ctx context.Context, technique *models.Technique, limitations []models.TechniqueLimitation) error
}

type techniqueRepository struct {
	db *gorm.DB
}

func NewTechniqueRepository(db *gorm.DB) TechniqueRepository {
	return &techniqueRepository{db: db}
}

// techniqueOrderings is the ordering allowlist for the list endpoint.
var techniqueOrderings = map[string]string{
	"name":                       "name asc",
	"-name":                      "name desc",
	"complexity_rating":          "complexity_rating asc",
	"-complexity_rating":         "complexity_rating desc",
	"computational_cost_rating":  "computational_cost_rating asc",
	"-computational_cost_rating": "computational_cost_rating desc",
}

func ValidOrdering(ordering string) bool {
	if ordering == "" {
		return true
	}
	_, ok := techniqueOrderings[ordering]
	return ok
}

func (r *techniqueRepository) Create(ctx context.Context, technique *models.Technique) error {
	// Associations are reconciled separately with replace semantics.
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(technique).Error
}

func (r *techniqueRepository) Save(ctx context.Context, technique *models.Technique) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(technique).Error
}

func preloadTechnique(db *gorm.DB) *gorm.DB {
	return db.
		Preload("AssuranceGoals").
		Preload("Categories").
		Preload("SubCategories").
		Preload("Tags").
		Preload("AttributeValues", func(db *gorm.DB) *gorm.DB { return db.Order("attribute_value.id asc") }).
		Preload("AttributeValues.AttributeType").
		Preload("Resources", func(db *gorm.DB) *gorm.DB { return db.Order("technique_resource.id asc") }).
		Preload("Resources.ResourceType").
		Preload("ExampleUseCases", func(db *gorm.DB) *gorm.DB { return db.Order("technique_example_use_case.id asc") }).
		Preload("ExampleUseCases.AssuranceGoal").
		Preload("Limitations", func(db *gorm.DB) *gorm.DB { return db.Order("technique_limitation.id asc") })
}

func (r *techniqueRepository) GetByID(ctx context.Context, id uint) (*models.Technique, error) {
	var technique models.Technique
	err := preloadTechnique(r.db.WithContext(ctx)).First(&technique, id).Error
	if err != nil {
		return nil, err
	}
	return &technique, nil
}

func (r *techniqueRepository) GetByName(ctx context.Context, name string) (*models.Technique, error) {
	var technique models.Technique
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&technique).Error
	if err != nil {
		return nil, err
	}
	return &technique, nil
}

func (r *techniqueRepository) LockByName(ctx context.Context, name string) (*models.Technique, error) {
	var technique models.Technique
	err := r.locking(ctx).Where("name = ?", name).First(&technique).Error
	if err != nil {
		return nil, err
	}
	return &technique, nil
}

func (r *techniqueRepository) LockByID(ctx context.Context, id uint) (*models.Technique, error) {
	var technique models.Technique
	err := r.locking(ctx).First(&technique, id).Error
	if err != nil {
		return nil, err
	}
	return &technique, nil
}

// locking adds FOR UPDATE on postgres. The embedded sqlite store has no
// row locks; its writes serialize on the database file instead.
func (r *techniqueRepository) locking(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

func (r *techniqueRepository) GetList(ctx context.Context, params models.TechniqueListParams) ([]models.Technique, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Technique{})

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	// Linked-entity filters: ANY-of within one parameter, AND across
	// parameters, composed as membership subqueries on the join tables.
	if len(params.AssuranceGoals) > 0 {
		query = query.Where("id IN (?)", r.db.Table("technique_assurance_goal").
			Select("technique_id").Where("assurance_goal_id IN ?", params.AssuranceGoals))
	}
	if len(params.Categories) > 0 {
		query = query.Where("id IN (?)", r.db.Table("technique_category").
			Select("technique_id").Where("category_id IN ?", params.Categories))
	}
	if len(params.SubCategories) > 0 {
		query = query.Where("id IN (?)", r.db.Table("technique_subcategory").
			Select("technique_id").Where("sub_category_id IN ?", params.SubCategories))
	}
	if len(params.Tags) > 0 {
		query = query.Where("id IN (?)", r.db.Table("technique_tag").
			Select("technique_id").Where("tag_id IN ?", params.Tags))
	}
	if params.ModelDependency != "" {
		query = query.Where("model_dependency = ?", params.ModelDependency)
	}
	if params.ComplexityLTE != nil {
		query = query.Where("complexity_rating <= ?", *params.ComplexityLTE)
	}
	if params.ComplexityGTE != nil {
		query = query.Where("complexity_rating >= ?", *params.ComplexityGTE)
	}
	if params.CostLTE != nil {
		query = query.Where("computational_cost_rating <= ?", *params.CostLTE)
	}
	if params.CostGTE != nil {
		query = query.Where("computational_cost_rating >= ?", *params.CostGTE)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "id asc"
	if o, ok := techniqueOrderings[params.Ordering]; ok {
		order = o + ", id asc"
	}

	var techniques []models.Technique
	err := preloadTechnique(query).
		Order(order).
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&techniques).Error

	return techniques, total, err
}

// Delete removes a technique and all of its owned children. Taxonomy
// rows linked through the join tables survive.
func (r *techniqueRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var technique models.Technique
		if err := tx.First(&technique, id).Error; err != nil {
			return err
		}
		if err := tx.Where("technique_id = ?", id).Delete(&models.AttributeValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("technique_id = ?", id).Delete(&models.TechniqueResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("technique_id = ?", id).Delete(&models.TechniqueExampleUseCase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("technique_id = ?", id).Delete(&models.TechniqueLimitation{}).Error; err != nil {
			return err
		}
		for _, assoc := range []string{"AssuranceGoals", "Categories", "SubCategories", "Tags"} {
			if err := tx.Model(&technique).Association(assoc).Clear(); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Technique{}, id).Error
	})
}

func (r *techniqueRepository) ReplaceGoals(ctx context.Context, technique *models.Technique, goals []models.AssuranceGoal) error {
	return r.db.WithContext(ctx).Model(technique).Association("AssuranceGoals").Replace(goals)
}

func (r *techniqueRepository) ReplaceCategories(ctx context.Context, technique *models.Technique, categories []models.Category) error {
	return r.db.WithContext(ctx).Model(technique).Association("Categories").Replace(categories)
}

func (r *techniqueRepository) ReplaceSubCategories(ctx context.Context, technique *models.Technique, subcategories []models.SubCategory) error {
	return r.db.WithContext(ctx).Model(technique).Association("SubCategories").Replace(subcategories)
}

func (r *techniqueRepository) ReplaceTags(ctx context.Context, technique *models.Technique, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(technique).Association("Tags").Replace(tags)
}

// replaceOwned deletes the technique's rows of one child table and
// re-inserts rows in input order via insert.
func (r *techniqueRepository) replaceOwned(ctx context.Context, techniqueID uint, model interface{}, insert func(db *gorm.DB) error) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("technique_id = ?", techniqueID).Delete(model).Error; err != nil {
		return err
	}
	return insert(db)
}

func (r *techniqueRepository) ReplaceAttributeValues(ctx context.Context, technique *models.Technique, values []models.AttributeValue) error {
	return r.replaceOwned(ctx, technique.ID, &models.AttributeValue{}, func(db *gorm.DB) error {
		for i := range values {
			values[i].TechniqueID = technique.ID
			if err := db.Omit(clause.Associations).Create(&values[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *techniqueRepository) ReplaceResources(ctx context.Context, technique *models.Technique, resources []models.TechniqueResource) error {
	return r.replaceOwned(ctx, technique.ID, &models.TechniqueResource{}, func(db *gorm.DB) error {
		for i := range resources {
			resources[i].TechniqueID = technique.ID
			if err := db.Omit(clause.Associations).Create(&resources[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *techniqueRepository) ReplaceUseCases(ctx context.Context, technique *models.Technique, useCases []models.TechniqueExampleUseCase) error {
	return r.replaceOwned(ctx, technique.ID, &models.TechniqueExampleUseCase{}, func(db *gorm.DB) error {
		for i := range useCases {
			useCases[i].TechniqueID = technique.ID
			if err := db.Omit(clause.Associations).Create(&useCases[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *techniqueRepository) ReplaceLimitations(ctx context.Context, technique *models.Technique, limitations []models.TechniqueLimitation) error {
	return r.replaceOwned(ctx, technique.ID, &models.TechniqueLimitation{}, func(db *gorm.DB) error {
		for i := range limitations {
			limitations[i].TechniqueID = technique.ID
			if err := db.Create(&limitations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
