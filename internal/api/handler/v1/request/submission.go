package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateSubmissionRequest struct {
	SubmissionURL string `json:"submission_url"`
}

func (req *CreateSubmissionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SubmissionURL, validation.Required, is.URL),
	)
}

type RejectSubmissionRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectSubmissionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 500)),
	)
}
