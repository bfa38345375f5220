package models

import "time"

type ResourceType struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ResourceType) TableName() string { return "resource_type" }

type TechniqueResource struct {
	ID              uint         `json:"id" gorm:"primarykey"`
	Title           string       `json:"title"`
	URL             string       `json:"url" gorm:"uniqueIndex:idx_resource_technique_url;not null"`
	Description     string       `json:"description" gorm:"type:text"`
	Authors         string       `json:"authors"`
	PublicationDate string       `json:"publication_date"`
	SourceType      string       `json:"source_type"`
	ResourceTypeID  uint         `json:"resource_type_id" gorm:"not null"`
	ResourceType    ResourceType `json:"resource_type" gorm:"foreignKey:ResourceTypeID"`
	TechniqueID     uint         `json:"technique_id" gorm:"uniqueIndex:idx_resource_technique_url;not null"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (TechniqueResource) TableName() string { return "technique_resource" }
