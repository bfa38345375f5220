package models

import (
	"encoding/json"
	"strings"
)

// TechniqueRecord is the canonical wire shape shared by the bulk importer
// and the technique create/update endpoints.
type TechniqueRecord struct {
	Name                    string            `json:"name" validate:"required,min=1,max=255"`
	Description             string            `json:"description" validate:"required"`
	ModelDependency         string            `json:"model_dependency" validate:"required,oneof=Model-Agnostic Model-Specific"`
	AssuranceGoals          []string          `json:"assurance_goals"`
	CategoryTags            string            `json:"category_tags"`
	Tags                    []string          `json:"tags"`
	ComplexityRating        *int              `json:"complexity_rating" validate:"omitempty,min=1,max=5"`
	ComputationalCostRating *int              `json:"computational_cost_rating" validate:"omitempty,min=1,max=5"`
	ApplicableModels        []string          `json:"applicable_models"`
	Attributes              []AttributeRecord `json:"attributes" validate:"dive"`
	ExampleUseCases         []UseCaseRecord   `json:"example_use_cases" validate:"dive"`
	Limitations             LimitationList    `json:"limitations"`
	Resources               []ResourceRecord  `json:"resources" validate:"dive"`
}

type AttributeRecord struct {
	Type        string `json:"type" validate:"required"`
	Value       string `json:"value" validate:"required"`
	Description string `json:"description"`
}

type UseCaseRecord struct {
	Description string `json:"description" validate:"required"`
	Goal        string `json:"goal"`
}

type ResourceRecord struct {
	Type            string `json:"type" validate:"required"`
	Title           string `json:"title"`
	URL             string `json:"url" validate:"required,url"`
	Description     string `json:"description"`
	Authors         string `json:"authors"`
	PublicationDate string `json:"publication_date"`
	SourceType      string `json:"source_type"`
}

// LimitationList accepts a JSON array of strings, an array of
// {"description": ...} objects, or a single pipe-delimited string.
// Empty tokens are discarded after trimming.
type LimitationList []string

func (l *LimitationList) UnmarshalJSON(data []byte) error {
	var asStrings []string
	if err := json.Unmarshal(data, &asStrings); err == nil {
		*l = cleanLimitations(asStrings)
		return nil
	}

	var asObjects []struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &asObjects); err == nil {
		items := make([]string, 0, len(asObjects))
		for _, o := range asObjects {
			items = append(items, o.Description)
		}
		*l = cleanLimitations(items)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*l = cleanLimitations(strings.Split(asString, "|"))
	return nil
}

func cleanLimitations(items []string) LimitationList {
	out := make(LimitationList, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type TechniqueListParams struct {
	Search          string `form:"search"`
	AssuranceGoals  []uint `form:"assurance_goal"`
	Categories      []uint `form:"category"`
	SubCategories   []uint `form:"subcategory"`
	Tags            []uint `form:"tag"`
	ModelDependency string `form:"model_dependency"`
	ComplexityLTE   *int   `form:"complexity_rating__lte"`
	ComplexityGTE   *int   `form:"complexity_rating__gte"`
	CostLTE         *int   `form:"computational_cost_rating__lte"`
	CostGTE         *int   `form:"computational_cost_rating__gte"`
	Ordering        string `form:"ordering"`
	Page            int    `form:"page,default=1"`
	PageSize        int    `form:"page_size,default=20"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging parameters to their allowed ranges.
func (p *TechniqueListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

type ListParams struct {
	Search   string `form:"search"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"isStaff"`
}

func NewAuthUser(u *User) AuthUser {
	return AuthUser{ID: u.ID, Username: u.Username, Email: u.Email, IsStaff: u.IsStaff}
}

type NameRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
}

type CategoryRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=255"`
	Description     string `json:"description"`
	AssuranceGoalID uint   `json:"assurance_goal_id" validate:"required"`
}

type SubCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" validate:"required"`
}

type ResourceTypeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Icon string `json:"icon"`
}

// ImportRecordError identifies a rejected record in an import run.
type ImportRecordError struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ImportSummary struct {
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Skipped int                 `json:"skipped"`
	Errors  []ImportRecordError `json:"errors"`
}
