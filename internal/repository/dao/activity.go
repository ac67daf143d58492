package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Activity struct {
	ID           uint     `gorm:"primaryKey"`
	ProgramID    uint     `gorm:"not null;index"`
	Program      *Program `gorm:"constraint:OnDelete:CASCADE;"`
	Name         string   `gorm:"not null;size:200"`
	Description  string   `gorm:"type:text"`
	Rulebook     string   `gorm:"type:text"`
	DurationMins int
	RewardGems   int64 `gorm:"not null"`
	IsCompulsory bool  `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

type ActivityDAO struct {
	db *gorm.DB
}

func NewActivityDAO(db *gorm.DB) *ActivityDAO {
	return &ActivityDAO{
		db: db,
	}
}

func (d *ActivityDAO) Insert(ctx context.Context, activity Activity) (Activity, error) {
	result := conn(ctx, d.db).Create(&activity)
	if result.Error != nil {
		return Activity{}, classify(result.Error)
	}

	return activity, nil
}

func (d *ActivityDAO) FindByID(ctx context.Context, id uint) (Activity, error) {
	var activity Activity

	result := conn(ctx, d.db).First(&activity, id)
	if result.Error != nil {
		return Activity{}, notFound(result.Error, ErrActivityNotFound)
	}

	return activity, nil
}

func (d *ActivityDAO) FindByProgramID(ctx context.Context, programID uint) ([]Activity, error) {
	var activities []Activity

	result := conn(ctx, d.db).Where("program_id = ?", programID).Order("id").Find(&activities)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return activities, nil
}
