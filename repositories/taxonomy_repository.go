package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tea-techniques-api/models"
)

// TaxonomyRepository manages the lazily-created taxonomy nodes: goals,
// categories, subcategories, tags, attribute types and resource types.
type TaxonomyRepository interface {
	GetOrCreateGoal(ctx context.Context, name, description string) (*models.AssuranceGoal, error)
	GetOrCreateCategory(ctx context.Context, name string, goalID uint) (*models.Category, error)
	GetOrCreateSubCategory(ctx context.Context, name string, categoryID uint) (*models.SubCategory, error)
	GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	GetOrCreateAttributeType(ctx context.Context, name string) (*models.AttributeType, error)
	GetOrCreateResourceType(ctx context.Context, name string) (*models.ResourceType, error)

	ListGoals(ctx context.Context, params models.ListParams) ([]models.AssuranceGoal, int64, error)
	ListCategories(ctx context.Context, params models.ListParams) ([]models.Category, int64, error)
	ListSubCategories(ctx context.Context, params models.ListParams) ([]models.SubCategory, int64, error)
	ListTags(ctx context.Context, params models.ListParams) ([]models.Tag, int64, error)
	ListAttributeTypes(ctx context.Context, params models.ListParams) ([]models.AttributeType, int64, error)
	ListResourceTypes(ctx context.Context, params models.ListParams) ([]models.ResourceType, int64, error)

	GetGoal(ctx context.Context, id uint) (*models.AssuranceGoal, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetSubCategory(ctx context.Context, id uint) (*models.SubCategory, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	GetAttributeType(ctx context.Context, id uint) (*models.AttributeType, error)
	GetResourceType(ctx context.Context, id uint) (*models.ResourceType, error)

	CreateGoal(ctx context.Context, goal *models.AssuranceGoal) error
	CreateCategory(ctx context.Context, category *models.Category) error
	CreateSubCategory(ctx context.Context, subcategory *models.SubCategory) error
	CreateTag(ctx context.Context, tag *models.Tag) error
	CreateAttributeType(ctx context.Context, at *models.AttributeType) error
	CreateResourceType(ctx context.Context, rt *models.ResourceType) error

	SaveGoal(ctx context.Context, goal *models.AssuranceGoal) error
	SaveCategory(ctx context.Context, category *models.Category) error
	SaveSubCategory(ctx context.Context, subcategory *models.SubCategory) error
	SaveTag(ctx context.Context, tag *models.Tag) error
	SaveAttributeType(ctx context.Context, at *models.AttributeType) error
	SaveResourceType(ctx context.Context, rt *models.ResourceType) error

	// DeleteGoal cascades to the goal's categories and their
	// subcategories, prunes technique links and detaches example use
	// cases; techniques themselves survive.
	DeleteGoal(ctx context.Context, id uint) error
	// DeleteCategory cascades to the category's subcategories and prunes
	// technique links; techniques themselves survive.
	DeleteCategory(ctx context.Context, id uint) error
	DeleteSubCategory(ctx context.Context, id uint) error
	DeleteTag(ctx context.Context, id uint) error
	DeleteAttributeType(ctx context.Context, id uint) error
	DeleteResourceType(ctx context.Context, id uint) error

	CountResourcesForType(ctx context.Context, resourceTypeID uint) (int64, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) GetOrCreateGoal(ctx context.Context, name, description string) (*models.AssuranceGoal, error) {
	var goal models.AssuranceGoal
	err := r.db.WithContext(ctx).
		Where(models.AssuranceGoal{Name: name}).
		Attrs(models.AssuranceGoal{Description: description}).
		FirstOrCreate(&goal).Error
	return &goal, err
}

func (r *taxonomyRepository) GetOrCreateCategory(ctx context.Context, name string, goalID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where(models.Category{Name: name, AssuranceGoalID: goalID}).
		FirstOrCreate(&category).Error
	return &category, err
}

func (r *taxonomyRepository) GetOrCreateSubCategory(ctx context.Context, name string, categoryID uint) (*models.SubCategory, error) {
	var subcategory models.SubCategory
	err := r.db.WithContext(ctx).
		Where(models.SubCategory{Name: name, CategoryID: categoryID}).
		FirstOrCreate(&subcategory).Error
	return &subcategory, err
}

func (r *taxonomyRepository) GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where(models.Tag{Name: name}).
		FirstOrCreate(&tag).Error
	return &tag, err
}

func (r *taxonomyRepository) GetOrCreateAttributeType(ctx context.Context, name string) (*models.AttributeType, error) {
	var at models.AttributeType
	err := r.db.WithContext(ctx).
		Where(models.AttributeType{Name: name}).
		FirstOrCreate(&at).Error
	return &at, err
}

func (r *taxonomyRepository) GetOrCreateResourceType(ctx context.Context, name string) (*models.ResourceType, error) {
	var rt models.ResourceType
	err := r.db.WithContext(ctx).
		Where(models.ResourceType{Name: name}).
		FirstOrCreate(&rt).Error
	return &rt, err
}

// list applies search and paging over one taxonomy table.
func (r *taxonomyRepository) list(ctx context.Context, model interface{}, dest interface{}, params models.ListParams) (int64, error) {
	query := r.db.WithContext(ctx).Model(model)
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	err := query.Order("id asc").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(dest).Error
	return total, err
}

func (r *taxonomyRepository) ListGoals(ctx context.Context, params models.ListParams) ([]models.AssuranceGoal, int64, error) {
	var goals []models.AssuranceGoal
	total, err := r.list(ctx, &models.AssuranceGoal{}, &goals, params)
	return goals, total, err
}

func (r *taxonomyRepository) ListCategories(ctx context.Context, params models.ListParams) ([]models.Category, int64, error) {
	var categories []models.Category
	total, err := r.list(ctx, &models.Category{}, &categories, params)
	return categories, total, err
}

func (r *taxonomyRepository) ListSubCategories(ctx context.Context, params models.ListParams) ([]models.SubCategory, int64, error) {
	var subcategories []models.SubCategory
	total, err := r.list(ctx, &models.SubCategory{}, &subcategories, params)
	return subcategories, total, err
}

func (r *taxonomyRepository) ListTags(ctx context.Context, params models.ListParams) ([]models.Tag, int64, error) {
	var tags []models.Tag
	total, err := r.list(ctx, &models.Tag{}, &tags, params)
	return tags, total, err
}

func (r *taxonomyRepository) ListAttributeTypes(ctx context.Context, params models.ListParams) ([]models.AttributeType, int64, error) {
	var types []models.AttributeType
	total, err := r.list(ctx, &models.AttributeType{}, &types, params)
	return types, total, err
}

func (r *taxonomyRepository) ListResourceTypes(ctx context.Context, params models.ListParams) ([]models.ResourceType, int64, error) {
	var types []models.ResourceType
	total, err := r.list(ctx, &models.ResourceType{}, &types, params)
	return types, total, err
}

func (r *taxonomyRepository) GetGoal(ctx context.Context, id uint) (*models.AssuranceGoal, error) {
	var goal models.AssuranceGoal
	err := r.db.WithContext(ctx).First(&goal, id).Error
	return &goal, err
}

func (r *taxonomyRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	return &category, err
}

func (r *taxonomyRepository) GetSubCategory(ctx context.Context, id uint) (*models.SubCategory, error) {
	var subcategory models.SubCategory
	err := r.db.WithContext(ctx).First(&subcategory, id).Error
	return &subcategory, err
}

func (r *taxonomyRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	return &tag, err
}

func (r *taxonomyRepository) GetAttributeType(ctx context.Context, id uint) (*models.AttributeType, error) {
	var at models.AttributeType
	err := r.db.WithContext(ctx).First(&at, id).Error
	return &at, err
}

func (r *taxonomyRepository) GetResourceType(ctx context.Context, id uint) (*models.ResourceType, error) {
	var rt models.ResourceType
	err := r.db.WithContext(ctx).First(&rt, id).Error
	return &rt, err
}

func (r *taxonomyRepository) CreateGoal(ctx context.Context, goal *models.AssuranceGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *taxonomyRepository) CreateSubCategory(ctx context.Context, subcategory *models.SubCategory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(subcategory).Error
}

func (r *taxonomyRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *taxonomyRepository) CreateAttributeType(ctx context.Context, at *models.AttributeType) error {
	return r.db.WithContext(ctx).Create(at).Error
}

func (r *taxonomyRepository) CreateResourceType(ctx context.Context, rt *models.ResourceType) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *taxonomyRepository) SaveGoal(ctx context.Context, goal *models.AssuranceGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *taxonomyRepository) SaveCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

func (r *taxonomyRepository) SaveSubCategory(ctx context.Context, subcategory *models.SubCategory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(subcategory).Error
}

func (r *taxonomyRepository) SaveTag(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *taxonomyRepository) SaveAttributeType(ctx context.Context, at *models.AttributeType) error {
	return r.db.WithContext(ctx).Save(at).Error
}

func (r *taxonomyRepository) SaveResourceType(ctx context.Context, rt *models.ResourceType) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *taxonomyRepository) DeleteGoal(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var goal models.AssuranceGoal
		if err := tx.First(&goal, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM technique_subcategory WHERE sub_category_id IN (SELECT s.id FROM subcategory s JOIN category c ON s.category_id = c.id WHERE c.assurance_goal_id = ?)",
			id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM subcategory WHERE category_id IN (SELECT id FROM category WHERE assurance_goal_id = ?)",
			id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM technique_category WHERE category_id IN (SELECT id FROM category WHERE assurance_goal_id = ?)",
			id).Error; err != nil {
			return err
		}
		if err := tx.Where("assurance_goal_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM technique_assurance_goal WHERE assurance_goal_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TechniqueExampleUseCase{}).
			Where("assurance_goal_id = ?", id).
			Update("assurance_goal_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AssuranceGoal{}, id).Error
	})
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM technique_subcategory WHERE sub_category_id IN (SELECT id FROM subcategory WHERE category_id = ?)",
			id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.SubCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM technique_category WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

func (r *taxonomyRepository) DeleteSubCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subcategory models.SubCategory
		if err := tx.First(&subcategory, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM technique_subcategory WHERE sub_category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SubCategory{}, id).Error
	})
}

func (r *taxonomyRepository) DeleteTag(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM technique_tag WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
}

func (r *taxonomyRepository) DeleteAttributeType(ctx context.Context, id uint) error {
	var at models.AttributeType
	if err := r.db.WithContext(ctx).First(&at, id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.AttributeType{}, id).Error
}

func (r *taxonomyRepository) DeleteResourceType(ctx context.Context, id uint) error {
	var rt models.ResourceType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.ResourceType{}, id).Error
}

func (r *taxonomyRepository) CountResourcesForType(ctx context.Context, resourceTypeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TechniqueResource{}).
		Where("resource_type_id = ?", resourceTypeID).Count(&count).Error
	return count, err
}
