package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name       string `gorm:"not null"`
	Department string
	Gender     string
	Role       string `gorm:"not null;default:USER"`

	ProfileCompletedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, ErrUserEmailExists
		}

		return User{}, classify(result.Error)
	}

	return user, nil
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := conn(ctx, d.db).Model(&User{ID: user.ID}).Updates(map[string]any{
		"name":                 user.Name,
		"department":           user.Department,
		"gender":               user.Gender,
		"role":                 user.Role,
		"profile_completed_at": user.ProfileCompletedAt,
	})
	if result.Error != nil {
		return User{}, classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, id)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := conn(ctx, d.db).First(&user, "email = ?", email)
	if result.Error != nil {
		return User{}, notFound(result.Error, ErrUserNotFound)
	}

	return user, nil
}
