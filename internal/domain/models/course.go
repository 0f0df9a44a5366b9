// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a program offered by a college (e.g. "Master", "Bachelor",
// "MBA"). Specializations carry their own fees.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollegeID   primitive.ObjectID `bson:"college_id" json:"college_id"`
	Name        string             `bson:"course_name" json:"course_name"`
	NameCI      string             `bson:"course_name_ci" json:"-"`
	Fees        float64            `bson:"fees" json:"fees"`
	Duration    string             `bson:"duration,omitempty" json:"duration,omitempty"`
	IsActivated bool               `bson:"is_activated" json:"is_activated"`

	Specializations []Specialization `bson:"course_specialization,omitempty" json:"course_specialization,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Specialization is one track within a course.
type Specialization struct {
	Name string  `bson:"spec_name" json:"spec_name"`
	Fees float64 `bson:"spec_fees,omitempty" json:"spec_fees,omitempty"`
}

// HasSpecialization reports whether name is a valid specialization.
func (c Course) HasSpecialization(name string) bool {
	for _, s := range c.Specializations {
		if s.Name == name {
			return true
		}
	}
	return false
}
