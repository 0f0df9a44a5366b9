// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents platform staff: admins, publishers, and counselors.
// Counselors belong to a college and see only their allocated leads.
type User struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName   string              `bson:"full_name" json:"full_name"`
	FullNameCI string              `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string              `bson:"email" json:"email"`
	Role       string              `bson:"role" json:"role"` // admin | publisher | counselor
	Status     string              `bson:"status,omitempty" json:"status,omitempty"`
	CollegeID  *primitive.ObjectID `bson:"college_id,omitempty" json:"college_id,omitempty"`

	// CourseIDs restricts which course applications a counselor is
	// allocated to. Empty means all courses of the college.
	CourseIDs []primitive.ObjectID `bson:"course_ids,omitempty" json:"course_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
