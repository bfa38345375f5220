package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ModelDependency string

const (
	ModelAgnostic ModelDependency = "Model-Agnostic"
	ModelSpecific ModelDependency = "Model-Specific"
)

const (
	RatingMin = 1
	RatingMax = 5
)

// StringList stores a JSON array of strings in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

type Technique struct {
	ID                      uint            `json:"id" gorm:"primarykey"`
	Name                    string          `json:"name" gorm:"uniqueIndex;not null"`
	Description             string          `json:"description" gorm:"type:text"`
	ModelDependency         ModelDependency `json:"model_dependency" gorm:"not null"`
	ComplexityRating        *int            `json:"complexity_rating"`
	ComputationalCostRating *int            `json:"computational_cost_rating"`
	ApplicableModels        StringList      `json:"applicable_models" gorm:"type:text"`

	AssuranceGoals []AssuranceGoal `json:"assurance_goals" gorm:"many2many:technique_assurance_goal;"`
	Categories     []Category      `json:"categories" gorm:"many2many:technique_category;"`
	SubCategories  []SubCategory   `json:"subcategories" gorm:"many2many:technique_subcategory;"`
	Tags           []Tag           `json:"tags" gorm:"many2many:technique_tag;"`

	AttributeValues []AttributeValue          `json:"attribute_values" gorm:"foreignKey:TechniqueID"`
	Resources       []TechniqueResource       `json:"resources" gorm:"foreignKey:TechniqueID"`
	ExampleUseCases []TechniqueExampleUseCase `json:"example_use_cases" gorm:"foreignKey:TechniqueID"`
	Limitations     []TechniqueLimitation     `json:"limitations" gorm:"foreignKey:TechniqueID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Technique) TableName() string { return "technique" }

type TechniqueExampleUseCase struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	Description     string         `json:"description" gorm:"type:text;not null"`
	TechniqueID     uint           `json:"technique_id" gorm:"not null"`
	AssuranceGoalID *uint          `json:"assurance_goal_id"`
	AssuranceGoal   *AssuranceGoal `json:"assurance_goal,omitempty" gorm:"foreignKey:AssuranceGoalID"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (TechniqueExampleUseCase) TableName() string { return "technique_example_use_case" }

type TechniqueLimitation struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	TechniqueID uint      `json:"technique_id" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TechniqueLimitation) TableName() string { return "technique_limitation" }
