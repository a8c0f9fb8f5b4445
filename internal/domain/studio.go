package domain

import "time"

type Role string

const (
	RoleCustomer    Role = "customer"
	RoleStudioOwner Role = "studio_owner"
)

type Studio struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`

	Services  []StudioService `json:"services,omitempty"`
	Equipment []EquipmentItem `json:"equipment,omitempty"`
}

// StudioService is a bookable service offered by a studio. Price is quoted
// per selected hourly slot.
type StudioService struct {
	ID              int64     `json:"id"`
	StudioID        int64     `json:"studio_id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// EquipmentItem is rentable gear with a day-rate; the per-session price is
// derived from the rate by the pricing engine at booking time.
type EquipmentItem struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	DayRate   float64   `json:"day_rate"`
	Quantity  int       `json:"quantity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
