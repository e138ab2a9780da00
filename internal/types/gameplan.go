package types

import (
	"time"

	"gorm.io/datatypes"
)

// GamePlan is one reconciled fact row of an imported media plan. Rows live
// and die by scope: a new import for the same (country, period, business
// unit) replaces every previous row in that scope.
type GamePlan struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Scope keys
	CountryID      uint  `gorm:"column:country_id;not null;index:idx_game_plan_scope" json:"country_id"`
	PeriodID       uint  `gorm:"column:period_id;not null;index:idx_game_plan_scope" json:"period_id"`
	BusinessUnitID *uint `gorm:"column:business_unit_id;index:idx_game_plan_scope" json:"business_unit_id,omitempty"`

	// Resolved taxonomy references, null when the source row left them blank
	// or resolution failed (the row still imports for review).
	SubRegionID    *uint `gorm:"column:sub_region_id" json:"sub_region_id,omitempty"`
	CategoryID     *uint `gorm:"column:category_id" json:"category_id,omitempty"`
	RangeID        *uint `gorm:"column:range_id" json:"range_id,omitempty"`
	CampaignID     *uint `gorm:"column:campaign_id" json:"campaign_id,omitempty"`
	MediaTypeID    *uint `gorm:"column:media_type_id" json:"media_type_id,omitempty"`
	MediaSubtypeID *uint `gorm:"column:media_subtype_id" json:"media_subtype_id,omitempty"`

	Country      *Country      `gorm:"foreignKey:CountryID;references:ID" json:"country,omitempty"`
	Period       *Period       `gorm:"foreignKey:PeriodID;references:ID" json:"period,omitempty"`
	BusinessUnit *BusinessUnit `gorm:"foreignKey:BusinessUnitID;references:ID" json:"business_unit,omitempty"`
	Campaign     *Campaign     `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`

	// Denormalized names kept for display and audit of rows whose
	// resolution failed.
	CampaignName string `gorm:"column:campaign_name" json:"campaign_name"`
	RangeName    string `gorm:"column:range_name" json:"range_name"`

	// Plan window
	Year        *int64     `gorm:"column:year" json:"year,omitempty"`
	StartDate   *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	WeeksOnAir  *int64     `gorm:"column:weeks_on_air" json:"weeks_on_air,omitempty"`
	WeeksOffAir *int64     `gorm:"column:weeks_off_air" json:"weeks_off_air,omitempty"`

	// Budgets (local currency)
	TotalBudget *float64 `gorm:"column:total_budget" json:"total_budget,omitempty"`
	Q1Budget    *float64 `gorm:"column:q1_budget" json:"q1_budget,omitempty"`
	Q2Budget    *float64 `gorm:"column:q2_budget" json:"q2_budget,omitempty"`
	Q3Budget    *float64 `gorm:"column:q3_budget" json:"q3_budget,omitempty"`
	Q4Budget    *float64 `gorm:"column:q4_budget" json:"q4_budget,omitempty"`

	// Reach / sufficiency metrics
	TRPs            *float64 `gorm:"column:trps" json:"trps,omitempty"`
	Reach1Plus      *float64 `gorm:"column:reach_1_plus" json:"reach_1_plus,omitempty"`
	Reach2Plus      *float64 `gorm:"column:reach_2_plus" json:"reach_2_plus,omitempty"`
	Reach3Plus      *float64 `gorm:"column:reach_3_plus" json:"reach_3_plus,omitempty"`
	SaturationPoint *float64 `gorm:"column:saturation_point" json:"saturation_point,omitempty"`

	// Demographic target
	TargetAudience string `gorm:"column:target_audience" json:"target_audience"`
	Gender         string `gorm:"column:gender" json:"gender"`
	MinAge         *int64 `gorm:"column:min_age" json:"min_age,omitempty"`
	MaxAge         *int64 `gorm:"column:max_age" json:"max_age,omitempty"`

	// Provenance
	UploadedBy    string         `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadSession string         `gorm:"column:upload_session;index" json:"upload_session"`
	RowIndex      int            `gorm:"column:row_index" json:"row_index"`
	RawRow        datatypes.JSON `gorm:"column:raw_row" json:"raw_row,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GamePlan) TableName() string { return "game_plan" }
