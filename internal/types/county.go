package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type County struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      int       `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CountyRequest struct {
	Name string `json:"name" example:"Nairobi"`
	Code int    `json:"code" example:"47"`
}

func (r CountyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("County name is required"),
			validation.Length(3, 50).Error("County name must be between 3 and 50 characters"),
		),
		validation.Field(&r.Code,
			validation.Required.Error("County code is required"),
			validation.Min(1).Error("County code must be a positive number"),
		),
	)
}
