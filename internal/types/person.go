package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Person struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Gender      string    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	CountyID    int64     `json:"county_id"`
	CountyName  string    `json:"county_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PersonRequest carries the county by name; the service resolves it.
type PersonRequest struct {
	FullName    string `json:"full_name" example:"Jane Doe"`
	Email       string `json:"email" example:"jane@example.com"`
	Phone       string `json:"phone" example:"0712345678"`
	Gender      string `json:"gender" example:"female"`
	DateOfBirth string `json:"date_of_birth" example:"1990-04-21"`
	CountyName  string `json:"county_name" example:"Nairobi"`
}

const DateLayout = "2006-01-02"

func (r PersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("Full name is required"),
			validation.Length(3, 50).Error("Full name must be between 3 and 50 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Invalid email format"),
		),
		validation.Field(&r.Phone,
			validation.Required.Error("Phone number is required"),
			validation.Length(10, 12).Error("Phone number must be between 10 and 12 characters"),
		),
		validation.Field(&r.Gender,
			validation.Required.Error("Gender is required"),
			validation.Length(3, 13).Error("Gender must be between 3 and 13 characters"),
		),
		validation.Field(&r.DateOfBirth,
			validation.Required.Error("Date of birth is required"),
			validation.Date(DateLayout).Max(time.Now()).
				Error("Date of birth must use the YYYY-MM-DD format").
				RangeError("Date of birth must be in the past"),
		),
		validation.Field(&r.CountyName,
			validation.Required.Error("County name is required"),
			validation.Length(3, 50).Error("County must be between 3 and 50 characters"),
		),
	)
}

// GenderStats counts persons per gender bucket.
type GenderStats struct {
	MaleCount         int64 `json:"male_count"`
	FemaleCount       int64 `json:"female_count"`
	NotSpecifiedCount int64 `json:"not_specified_count"`
}
