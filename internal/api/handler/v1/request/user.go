package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/questevent/questevent-api/internal/domain"
)

type CompleteProfileRequest struct {
	Department string `json:"department" enums:"GENERAL,IT,HR,FINANCE,MARKETING,OPERATIONS,ENGINEERING"`
	Gender     string `json:"gender"`
}

func (req *CompleteProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Department, validation.Required, validation.In(
			string(domain.DepartmentGeneral),
			string(domain.DepartmentIT),
			string(domain.DepartmentHR),
			string(domain.DepartmentFinance),
			string(domain.DepartmentMarketing),
			string(domain.DepartmentOperations),
			string(domain.DepartmentEngineering),
		)),
		validation.Field(&req.Gender, validation.Length(0, 20)),
	)
}
