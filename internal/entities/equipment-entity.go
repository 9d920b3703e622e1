package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"maintenance-system/pkg/constants"
)

type Equipment struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Model      null.String               `json:"model"`
	CategoryID null.String               `json:"category_id"`
	Status     constants.EquipmentStatus `json:"status"`
	ImageURL   null.String               `json:"image_url"`
	Notes      null.String               `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data, not a column
	Category *Category `json:"category,omitempty" db:"-"`
}

type Category struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Icon  null.String `json:"icon"`
	Color null.String `json:"color"`

	CreatedAt time.Time `json:"created_at"`
}

type UserProfile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
