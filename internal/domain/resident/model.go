package resident

import (
	"time"

	"github.com/google/uuid"
)

// Resident maps to the residents table. UniqueID is the human-readable
// registry number (VH-YYYY-NNNN); it is assigned at registration and never
// changes afterwards.
type Resident struct {
	ID               uuid.UUID `db:"id" json:"id"`
	UniqueID         string    `db:"unique_id" json:"unique_id"`
	Name             string    `db:"name" json:"name"`
	Age              *int      `db:"age" json:"age,omitempty"`
	Gender           string    `db:"gender" json:"gender"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	VillageArea      *string   `db:"village_area" json:"village_area,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	PhotoID          *string   `db:"photo_id" json:"photo_id,omitempty"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	RegisteredBy     *string   `db:"registered_by" json:"registered_by,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// Demographic band for the age, attached per response and never stored.
	AgeBand *string `db:"-" json:"age_band,omitempty"`
}

// SearchParams narrows a resident search. Query matches the registry number
// exactly when it has the VH- form, otherwise it matches names as a
// case-insensitive substring. Village filters on village_area.
type SearchParams struct {
	Query   string
	Village string
}
