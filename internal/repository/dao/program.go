package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Program struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"not null"`
	Description     string
	Department      string
	StartDate       time.Time
	EndDate         time.Time `gorm:"index:idx_programs_status_end_date,priority:2"`
	RegistrationFee int       `gorm:"not null;default:0"`
	Status          string    `gorm:"not null;default:DRAFT;index:idx_programs_status_end_date,priority:1"`
	HostID          uint      `gorm:"not null;index"`
	Host            *User     `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE;"`
	JudgeID         *uint
	Judge           *User `gorm:"foreignKey:JudgeID;constraint:OnDelete:SET NULL;"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProgramRegistration struct {
	ID        uint     `gorm:"primaryKey"`
	ProgramID uint     `gorm:"not null;uniqueIndex:uk_registration_program_user"`
	Program   *Program `gorm:"constraint:OnDelete:CASCADE;"`
	UserID    uint     `gorm:"not null;uniqueIndex:uk_registration_program_user"`
	User      *User    `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}

type ProgramDAO struct {
	db *gorm.DB
}

func NewProgramDAO(db *gorm.DB) *ProgramDAO {
	return &ProgramDAO{
		db: db,
	}
}

func (d *ProgramDAO) Insert(ctx context.Context, program Program) (Program, error) {
	result := conn(ctx, d.db).Create(&program)
	if result.Error != nil {
		return Program{}, classify(result.Error)
	}

	return program, nil
}

func (d *ProgramDAO) FindByID(ctx context.Context, id uint) (Program, error) {
	var program Program

	result := conn(ctx, d.db).First(&program, id)
	if result.Error != nil {
		return Program{}, notFound(result.Error, ErrProgramNotFound)
	}

	return program, nil
}

// LockByID selects the program FOR UPDATE. Settlement takes this lock first.
func (d *ProgramDAO) LockByID(ctx context.Context, id uint) (Program, error) {
	var program Program

	result := forUpdate(conn(ctx, d.db)).First(&program, id)
	if result.Error != nil {
		return Program{}, notFound(result.Error, ErrProgramNotFound)
	}

	return program, nil
}

// ShareLockByID selects the program FOR SHARE so a concurrent settlement has to wait
// for the caller's transaction.
func (d *ProgramDAO) ShareLockByID(ctx context.Context, id uint) (Program, error) {
	var program Program

	result := forShare(conn(ctx, d.db)).First(&program, id)
	if result.Error != nil {
		return Program{}, notFound(result.Error, ErrProgramNotFound)
	}

	return program, nil
}

func (d *ProgramDAO) FindByStatusAndEndDateBefore(ctx context.Context, status string, before time.Time) ([]Program, error) {
	var programs []Program

	result := conn(ctx, d.db).
		Where("status = ? AND end_date < ?", status, before).
		Order("end_date, id").
		Find(&programs)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return programs, nil
}

// UpdateStatus moves the program from one status to another and reports whether a row changed.
func (d *ProgramDAO) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := conn(ctx, d.db).Model(&Program{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, classify(result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (d *ProgramDAO) AssignJudge(ctx context.Context, id, judgeID uint) error {
	result := conn(ctx, d.db).Model(&Program{}).
		Where("id = ?", id).
		Update("judge_id", judgeID)
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProgramNotFound
	}

	return nil
}

func (d *ProgramDAO) InsertRegistration(ctx context.Context, registration ProgramRegistration) (ProgramRegistration, error) {
	result := conn(ctx, d.db).Create(&registration)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ProgramRegistration{}, ErrAlreadyRegistered
		}

		return ProgramRegistration{}, classify(result.Error)
	}

	return registration, nil
}

func (d *ProgramDAO) IsRegistered(ctx context.Context, programID, userID uint) (bool, error) {
	var count int64

	result := conn(ctx, d.db).Model(&ProgramRegistration{}).
		Where("program_id = ? AND user_id = ?", programID, userID).
		Count(&count)
	if result.Error != nil {
		return false, classify(result.Error)
	}

	return count > 0, nil
}
