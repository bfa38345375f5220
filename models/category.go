package models

import "time"

type Category struct {
	ID              uint          `json:"id" gorm:"primarykey"`
	Name            string        `json:"name" gorm:"uniqueIndex:idx_category_name_goal;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	AssuranceGoalID uint          `json:"assurance_goal_id" gorm:"uniqueIndex:idx_category_name_goal;not null"`
	AssuranceGoal   AssuranceGoal `json:"-" gorm:"foreignKey:AssuranceGoalID"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type SubCategory struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex:idx_subcategory_name_category;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  uint      `json:"category_id" gorm:"uniqueIndex:idx_subcategory_name_category;not null"`
	Category    *Category `json:"-" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SubCategory) TableName() string { return "subcategory" }
