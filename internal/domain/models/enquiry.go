// internal/domain/models/enquiry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enquiry is a help-desk question raised by a lead, answered by a
// counselor.
type Enquiry struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CollegeID  primitive.ObjectID  `bson:"college_id" json:"college_id"`
	StudentID  primitive.ObjectID  `bson:"student_id" json:"student_id"`
	Subject    string              `bson:"subject" json:"subject"`
	Message    string              `bson:"message" json:"message"`
	Status     string              `bson:"status" json:"status"` // open | answered | closed
	Answer     string              `bson:"answer,omitempty" json:"answer,omitempty"`
	AnsweredBy *primitive.ObjectID `bson:"answered_by,omitempty" json:"answered_by,omitempty"`
	AnsweredAt *time.Time          `bson:"answered_at,omitempty" json:"answered_at,omitempty"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}
