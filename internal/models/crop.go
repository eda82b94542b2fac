package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GrowthStage is a descriptive maturity label. Any stage may be set to any
// other; nothing enforces an order between them.
type GrowthStage string

const (
	StageSeed        GrowthStage = "seed"
	StageGermination GrowthStage = "germination"
	StageVegetative  GrowthStage = "vegetative"
	StageFlowering   GrowthStage = "flowering"
	StageFruiting    GrowthStage = "fruiting"
	StageHarvest     GrowthStage = "harvest"
	StageHarvested   GrowthStage = "harvested"
)

// GrowthStages lists every stage in display order.
var GrowthStages = []GrowthStage{
	StageSeed,
	StageGermination,
	StageVegetative,
	StageFlowering,
	StageFruiting,
	StageHarvest,
	StageHarvested,
}

var stageLabels = map[GrowthStage]string{
	StageSeed:        "Seed/Planting",
	StageGermination: "Germination",
	StageVegetative:  "Vegetative Growth",
	StageFlowering:   "Flowering",
	StageFruiting:    "Fruiting",
	StageHarvest:     "Ready for Harvest",
	StageHarvested:   "Harvested",
}

func (s GrowthStage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

func (s GrowthStage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Order is the stage's position in GrowthStages, or len(GrowthStages) for
// unknown values.
func (s GrowthStage) Order() int {
	for i, stage := range GrowthStages {
		if stage == s {
			return i
		}
	}
	return len(GrowthStages)
}

type Crop struct {
	ID                  uint                 `gorm:"primarykey" json:"id"`
	FarmID              uint                 `gorm:"not null;index" json:"farm_id"`
	Farm                Farm                 `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"-"`
	CropTypeID          uint                 `gorm:"not null;index" json:"crop_type_id"`
	CropType            CropType             `gorm:"foreignKey:CropTypeID;constraint:OnDelete:CASCADE" json:"crop_type"`
	PlantedDate         time.Time            `gorm:"type:date;not null;index" json:"planted_date"`
	AreaPlanted         decimal.Decimal      `gorm:"type:decimal(8,2);not null" json:"area_planted"`
	CurrentStage        GrowthStage          `gorm:"size:20;not null;default:seed;index" json:"current_stage"`
	ExpectedHarvestDate time.Time            `gorm:"type:date;not null" json:"expected_harvest_date"`
	Notes               string               `gorm:"type:text" json:"notes"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	IrrigationSchedules []IrrigationSchedule `gorm:"foreignKey:CropID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Crop) Validate() error {
	errs := FieldErrors{}
	if c.FarmID == 0 {
		errs["farm"] = "this field is required"
	}
	if c.CropTypeID == 0 {
		errs["crop_type_id"] = "this field is required"
	}
	if c.PlantedDate.IsZero() {
		errs["planted_date"] = "this field is required"
	}
	if c.ExpectedHarvestDate.IsZero() {
		errs["expected_harvest_date"] = "this field is required"
	}
	if c.AreaPlanted.IsNegative() {
		errs["area_planted"] = "must not be negative"
	}
	errs.checkDecimal("area_planted", c.AreaPlanted, 8, 2)
	if !c.CurrentStage.Valid() {
		errs["current_stage"] = "unknown growth stage"
	}
	return errs.orNil()
}

func (c *Crop) BeforeSave(tx *gorm.DB) error {
	if c.CurrentStage == "" {
		c.CurrentStage = StageSeed
	}
	return c.Validate()
}

// DaysSincePlanting counts whole days from the planting date to today.
func (c *Crop) DaysSincePlanting(today time.Time) int {
	return int(DateOf(today).Sub(DateOf(c.PlantedDate)).Hours() / 24)
}

// DisplayName is "<crop type> at <farm>", using whatever associations are loaded.
func (c *Crop) DisplayName() string {
	return c.CropType.Name + " at " + c.Farm.Name
}
