package types

import (
	"time"
)

type SubRegion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SubRegion) TableName() string { return "sub_region" }

type Country struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null;uniqueIndex" json:"name"`
	SubRegionID *uint      `gorm:"column:sub_region_id;index" json:"sub_region_id,omitempty"`
	SubRegion   *SubRegion `gorm:"foreignKey:SubRegionID;references:ID" json:"sub_region,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Country) TableName() string { return "country" }

type BusinessUnit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (BusinessUnit) TableName() string { return "business_unit" }

type Category struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"column:name;not null;uniqueIndex" json:"name"`
	BusinessUnitID *uint         `gorm:"column:business_unit_id;index" json:"business_unit_id,omitempty"`
	BusinessUnit   *BusinessUnit `gorm:"foreignKey:BusinessUnitID;references:ID" json:"business_unit,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type Range struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Range) TableName() string { return "range" }

// CategoryToRange is the many-to-many join between Category and Range.
// A Range may legitimately belong to more than one Category.
type CategoryToRange struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"column:category_id;not null;uniqueIndex:idx_category_range" json:"category_id"`
	RangeID    uint      `gorm:"column:range_id;not null;uniqueIndex:idx_category_range" json:"range_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (CategoryToRange) TableName() string { return "category_to_range" }

type Campaign struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_campaign_name_range" json:"name"`
	RangeID   *uint     `gorm:"column:range_id;uniqueIndex:idx_campaign_name_range" json:"range_id,omitempty"`
	Range     *Range    `gorm:"foreignKey:RangeID;references:ID" json:"range,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Campaign) TableName() string { return "campaign" }

type MediaType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MediaType) TableName() string { return "media_type" }

// MediaSubtype names are unique only within a MediaType, not globally.
type MediaSubtype struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"column:name;not null;uniqueIndex:idx_subtype_name_type" json:"name"`
	MediaTypeID uint       `gorm:"column:media_type_id;not null;uniqueIndex:idx_subtype_name_type" json:"media_type_id"`
	MediaType   *MediaType `gorm:"foreignKey:MediaTypeID;references:ID" json:"media_type,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (MediaSubtype) TableName() string { return "media_subtype" }

// Period is a financial cycle (e.g. "FY25") used as one leg of an import scope.
type Period struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Period) TableName() string { return "period" }
