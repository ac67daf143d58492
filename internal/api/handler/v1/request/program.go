package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errEndBeforeStart = errors.New("end_date must be after start_date")

type CreateProgramRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Department      string    `json:"department"`
	StartDate       time.Time `json:"start_date" format:"date-time"`
	EndDate         time.Time `json:"end_date" format:"date-time"`
	RegistrationFee int       `json:"registration_fee"`
}

func (req *CreateProgramRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
		validation.Field(&req.RegistrationFee, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if !req.EndDate.After(req.StartDate) {
		return errEndBeforeStart
	}

	return nil
}

type AssignJudgeRequest struct {
	JudgeID uint `json:"judge_id"`
}

func (req *AssignJudgeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.JudgeID, validation.Required, validation.Min(uint(1))),
	)
}

type CreateActivityRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Rulebook     string `json:"rulebook"`
	DurationMins int    `json:"duration_mins"`
	RewardGems   int64  `json:"reward_gems"`
	IsCompulsory bool   `json:"is_compulsory"`
}

func (req *CreateActivityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.DurationMins, validation.Min(0)),
		validation.Field(&req.RewardGems, validation.Required, validation.Min(int64(1))),
	)
}

// RegisterRequest is optional; an empty body registers the caller.
type RegisterRequest struct {
	UserID uint `json:"user_id"`
}
