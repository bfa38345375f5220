package models

import "time"

type AttributeType struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AttributeType) TableName() string { return "attribute_type" }

type AttributeValue struct {
	ID              uint          `json:"id" gorm:"primarykey"`
	Name            string        `json:"name" gorm:"uniqueIndex:idx_attribute_value_key;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	AttributeTypeID uint          `json:"attribute_type_id" gorm:"uniqueIndex:idx_attribute_value_key;not null"`
	AttributeType   AttributeType `json:"attribute_type" gorm:"foreignKey:AttributeTypeID"`
	TechniqueID     uint          `json:"technique_id" gorm:"uniqueIndex:idx_attribute_value_key;not null"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (AttributeValue) TableName() string { return "attribute_value" }
