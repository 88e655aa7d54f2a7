package domain

import "time"

// Profile is the single-tenant user profile used to personalise analysis
type Profile struct {
	ID           uint      `json:"id"`
	Diet         *string   `json:"diet"`
	Allergies    []string  `json:"allergies"`
	Restrictions []string  `json:"restrictions"`
	Age          *int      `json:"age"`
	Weight       *float64  `json:"weight"`
	Goals        *string   `json:"goals"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileInput carries the fields a client may set on create or update.
// Nil fields are left untouched on update.
type ProfileInput struct {
	Diet         *string   `json:"diet,omitempty" validate:"omitempty,max=64"`
	Allergies    *[]string `json:"allergies,omitempty" validate:"omitempty,dive,required,max=64"`
	Restrictions *[]string `json:"restrictions,omitempty" validate:"omitempty,dive,required,max=64"`
	Age          *int      `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Weight       *float64  `json:"weight,omitempty" validate:"omitempty,gt=0,max=1000"`
	Goals        *string   `json:"goals,omitempty" validate:"omitempty,max=256"`
}
