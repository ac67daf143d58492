package domain

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleHost  Role = "HOST"
	RoleJudge Role = "JUDGE"
	RoleOwner Role = "OWNER"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleHost, RoleJudge, RoleOwner:
		return true
	}
	return false
}

type Department string

const (
	DepartmentGeneral     Department = "GENERAL"
	DepartmentIT          Department = "IT"
	DepartmentHR          Department = "HR"
	DepartmentFinance     Department = "FINANCE"
	DepartmentMarketing   Department = "MARKETING"
	DepartmentOperations  Department = "OPERATIONS"
	DepartmentEngineering Department = "ENGINEERING"
)

type User struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Department Department `json:"department"`
	Gender     string     `json:"gender"`
	Role       Role       `json:"role"`

	ProfileCompletedAt *time.Time `json:"profile_completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) HasCompletedProfile() bool {
	return u.ProfileCompletedAt != nil
}

// CanOperate reports whether the user may run operator actions such as manual settlement.
func (u User) CanOperate() bool {
	return u.Role == RoleOwner
}
