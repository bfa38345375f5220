package services

import (
	"context"

	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
)

// TaxonomyService exposes reads and admin writes over taxonomy nodes.
// Deleting a resource type referenced by any technique resource is
// rejected (PROTECT); deleting a category cascades to its subcategories.
type TaxonomyService interface {
	ListGoals(ctx context.Context, params *models.ListParams) ([]models.AssuranceGoal, int64, error)
	ListCategories(ctx context.Context, params *models.ListParams) ([]models.Category, int64, error)
	ListSubCategories(ctx context.Context, params *models.ListParams) ([]models.SubCategory, int64, error)
	ListTags(ctx context.Context, params *models.ListParams) ([]models.Tag, int64, error)
	ListAttributeTypes(ctx context.Context, params *models.ListParams) ([]models.AttributeType, int64, error)
	ListResourceTypes(ctx context.Context, params *models.ListParams) ([]models.ResourceType, int64, error)

	GetGoal(ctx context.Context, id uint) (*models.AssuranceGoal, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetSubCategory(ctx context.Context, id uint) (*models.SubCategory, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	GetAttributeType(ctx context.Context, id uint) (*models.AttributeType, error)
	GetResourceType(ctx context.Context, id uint) (*models.ResourceType, error)

	CreateGoal(ctx context.Context, req *models.NameRequest) (*models.AssuranceGoal, error)
	CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	CreateSubCategory(ctx context.Context, req *models.SubCategoryRequest) (*models.SubCategory, error)
	CreateTag(ctx context.Context, req *models.NameRequest) (*models.Tag, error)
	CreateAttributeType(ctx context.Context, req *models.NameRequest) (*models.AttributeType, error)
	CreateResourceType(ctx context.Context, req *models.ResourceTypeRequest) (*models.ResourceType, error)

	UpdateGoal(ctx context.Context, id uint, req *models.NameRequest) (*models.AssuranceGoal, error)
	UpdateCategory(ctx context.Context, id uint, req *models.CategoryRequest) (*models.Category, error)
	UpdateSubCategory(ctx context.Context, id uint, req *models.SubCategoryRequest) (*models.SubCategory, error)
	UpdateTag(ctx context.Context, id uint, req *models.NameRequest) (*models.Tag, error)
	UpdateAttributeType(ctx context.Context, id uint, req *models.NameRequest) (*models.AttributeType, error)
	UpdateResourceType(ctx context.Context, id uint, req *models.ResourceTypeRequest) (*models.ResourceType, error)

	DeleteGoal(ctx context.Context, id uint) error
	DeleteCategory(ctx context.Context, id uint) error
	DeleteSubCategory(ctx context.Context, id uint) error
	DeleteTag(ctx context.Context, id uint) error
	DeleteAttributeType(ctx context.Context, id uint) error
	DeleteResourceType(ctx context.Context, id uint) error
}

type taxonomyService struct {
	store *repositories.Store
}

func NewTaxonomyService(store *repositories.Store) TaxonomyService {
	return &taxonomyService{store: store}
}

func (s *taxonomyService) ListGoals(ctx context.Context, params *models.ListParams) ([]models.AssuranceGoal, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListGoals(ctx, *params)
}

func (s *taxonomyService) ListCategories(ctx context.Context, params *models.ListParams) ([]models.Category, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListCategories(ctx, *params)
}

func (s *taxonomyService) ListSubCategories(ctx context.Context, params *models.ListParams) ([]models.SubCategory, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListSubCategories(ctx, *params)
}

func (s *taxonomyService) ListTags(ctx context.Context, params *models.ListParams) ([]models.Tag, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListTags(ctx, *params)
}

func (s *taxonomyService) ListAttributeTypes(ctx context.Context, params *models.ListParams) ([]models.AttributeType, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListAttributeTypes(ctx, *params)
}

func (s *taxonomyService) ListResourceTypes(ctx context.Context, params *models.ListParams) ([]models.ResourceType, int64, error) {
	params.Normalize()
	return s.store.Taxonomy.ListResourceTypes(ctx, *params)
}

func (s *taxonomyService) GetGoal(ctx context.Context, id uint) (*models.AssuranceGoal, error) {
	return s.store.Taxonomy.GetGoal(ctx, id)
}

func (s *taxonomyService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.store.Taxonomy.GetCategory(ctx, id)
}

func (s *taxonomyService) GetSubCategory(ctx context.Context, id uint) (*models.SubCategory, error) {
	return s.store.Taxonomy.GetSubCategory(ctx, id)
}

func (s *taxonomyService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.store.Taxonomy.GetTag(ctx, id)
}

func (s *taxonomyService) GetAttributeType(ctx context.Context, id uint) (*models.AttributeType, error) {
	return s.store.Taxonomy.GetAttributeType(ctx, id)
}

func (s *taxonomyService) GetResourceType(ctx context.Context, id uint) (*models.ResourceType, error) {
	return s.store.Taxonomy.GetResourceType(ctx, id)
}

func (s *taxonomyService) CreateGoal(ctx context.Context, req *models.NameRequest) (*models.AssuranceGoal, error) {
	goal := &models.AssuranceGoal{Name: req.Name, Description: req.Description}
	if err := s.store.Taxonomy.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	if _, err := s.store.Taxonomy.GetGoal(ctx, req.AssuranceGoalID); err != nil {
		return nil, models.NewFieldError("assurance_goal_id", "assurance goal does not exist")
	}
	category := &models.Category{Name: req.Name, Description: req.Description, AssuranceGoalID: req.AssuranceGoalID}
	if err := s.store.Taxonomy.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *taxonomyService) CreateSubCategory(ctx context.Context, req *models.SubCategoryRequest) (*models.SubCategory, error) {
	if _, err := s.store.Taxonomy.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, models.NewFieldError("category_id", "category does not exist")
	}
	subcategory := &models.SubCategory{Name: req.Name, Description: req.Description, CategoryID: req.CategoryID}
	if err := s.store.Taxonomy.CreateSubCategory(ctx, subcategory); err != nil {
		return nil, err
	}
	return subcategory, nil
}

func (s *taxonomyService) CreateTag(ctx context.Context, req *models.NameRequest) (*models.Tag, error) {
	tag := &models.Tag{Name: req.Name}
	if err := s.store.Taxonomy.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *taxonomyService) CreateAttributeType(ctx context.Context, req *models.NameRequest) (*models.AttributeType, error) {
	at := &models.AttributeType{Name: req.Name, Description: req.Description}
	if err := s.store.Taxonomy.CreateAttributeType(ctx, at); err != nil {
		return nil, err
	}
	return at, nil
}

func (s *taxonomyService) CreateResourceType(ctx context.Context, req *models.ResourceTypeRequest) (*models.ResourceType, error) {
	rt := &models.ResourceType{Name: req.Name, Icon: req.Icon}
	if err := s.store.Taxonomy.CreateResourceType(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *taxonomyService) UpdateGoal(ctx context.Context, id uint, req *models.NameRequest) (*models.AssuranceGoal, error) {
	goal, err := s.store.Taxonomy.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	goal.Name = req.Name
	goal.Description = req.Description
	if err := s.store.Taxonomy.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, id uint, req *models.CategoryRequest) (*models.Category, error) {
	category, err := s.store.Taxonomy.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Taxonomy.GetGoal(ctx, req.AssuranceGoalID); err != nil {
		return nil, models.NewFieldError("assurance_goal_id", "assurance goal does not exist")
	}
	category.Name = req.Name
	category.Description = req.Description
	category.AssuranceGoalID = req.AssuranceGoalID
	if err := s.store.Taxonomy.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *taxonomyService) UpdateSubCategory(ctx context.Context, id uint, req *models.SubCategoryRequest) (*models.SubCategory, error) {
	subcategory, err := s.store.Taxonomy.GetSubCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Taxonomy.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, models.NewFieldError("category_id", "category does not exist")
	}
	subcategory.Name = req.Name
	subcategory.Description = req.Description
	subcategory.CategoryID = req.CategoryID
	if err := s.store.Taxonomy.SaveSubCategory(ctx, subcategory); err != nil {
		return nil, err
	}
	return subcategory, nil
}

func (s *taxonomyService) UpdateTag(ctx context.Context, id uint, req *models.NameRequest) (*models.Tag, error) {
	tag, err := s.store.Taxonomy.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = req.Name
	if err := s.store.Taxonomy.SaveTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *taxonomyService) UpdateAttributeType(ctx context.Context, id uint, req *models.NameRequest) (*models.AttributeType, error) {
	at, err := s.store.Taxonomy.GetAttributeType(ctx, id)
	if err != nil {
		return nil, err
	}
	at.Name = req.Name
	at.Description = req.Description
	if err := s.store.Taxonomy.SaveAttributeType(ctx, at); err != nil {
		return nil, err
	}
	return at, nil
}

func (s *taxonomyService) UpdateResourceType(ctx context.Context, id uint, req *models.ResourceTypeRequest) (*models.ResourceType, error) {
	rt, err := s.store.Taxonomy.GetResourceType(ctx, id)
	if err != nil {
		return nil, err
	}
	rt.Name = req.Name
	rt.Icon = req.Icon
	if err := s.store.Taxonomy.SaveResourceType(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *taxonomyService) DeleteGoal(ctx context.Context, id uint) error {
	return s.store.Taxonomy.DeleteGoal(ctx, id)
}

func (s *taxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	return s.store.Taxonomy.DeleteCategory(ctx, id)
}

func (s *taxonomyService) DeleteSubCategory(ctx context.Context, id uint) error {
	return s.store.Taxonomy.DeleteSubCategory(ctx, id)
}

func (s *taxonomyService) DeleteTag(ctx context.Context, id uint) error {
	return s.store.Taxonomy.DeleteTag(ctx, id)
}

func (s *taxonomyService) DeleteAttributeType(ctx context.Context, id uint) error {
	count, err := s.countAttributeValues(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflict("attribute type is referenced by technique attributes")
	}
	return s.store.Taxonomy.DeleteAttributeType(ctx, id)
}

// DeleteResourceType enforces PROTECT semantics: removal is rejected
// while any technique resource references the type.
func (s *taxonomyService) DeleteResourceType(ctx context.Context, id uint) error {
	if _, err := s.store.Taxonomy.GetResourceType(ctx, id); err != nil {
		return err
	}
	count, err := s.store.Taxonomy.CountResourcesForType(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflict("resource type is referenced by technique resources")
	}
	return s.store.Taxonomy.DeleteResourceType(ctx, id)
}

func (s *taxonomyService) countAttributeValues(ctx context.Context, attributeTypeID uint) (int64, error) {
	var count int64
	err := s.store.DB.Model(&models.AttributeValue{}).
		Where("attribute_type_id = ?", attributeTypeID).Count(&count).Error
	return count, err
}
