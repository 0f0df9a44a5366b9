// internal/domain/models/college.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// College is the tenant boundary: every lead, application and scholarship
// is scoped to exactly one college.
type College struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`
	Status string             `bson:"status" json:"status"` // active | disabled

	Address *Address `bson:"address,omitempty" json:"address,omitempty"`

	// SeasonStart/SeasonEnd bound the current admission season; date-range
	// filters default to this window when the caller supplies none.
	SeasonStart *time.Time `bson:"season_start,omitempty" json:"season_start,omitempty"`
	SeasonEnd   *time.Time `bson:"season_end,omitempty" json:"season_end,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
