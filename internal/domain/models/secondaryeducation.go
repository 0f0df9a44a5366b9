// internal/domain/models/secondaryeducation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Marking schemes for twelfth-grade results. Numeric range filters on marks
// only apply under the Percentage scheme.
const (
	MarkingSchemePercentage = "Percentage"
	MarkingSchemeCGPA       = "CGPA"
	MarkingSchemeGrade      = "Grade"
)

// SecondaryEducation is the academic-history record for a lead, one per
// student. Used for filtering and scholarship eligibility.
type SecondaryEducation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	CollegeID primitive.ObjectID `bson:"college_id" json:"college_id"`

	Tenth   *EducationDetail `bson:"tenth,omitempty" json:"tenth,omitempty"`
	Twelfth *EducationDetail `bson:"inter,omitempty" json:"inter,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EducationDetail is one level of schooling (10th or 12th).
type EducationDetail struct {
	Board         string   `bson:"board,omitempty" json:"board,omitempty"` // CBSE | ICSE | State Board | ...
	SchoolName    string   `bson:"school_name,omitempty" json:"school_name,omitempty"`
	MarkingScheme string   `bson:"marking_scheme,omitempty" json:"marking_scheme,omitempty"`
	ObtainedCGPA  *float64 `bson:"obtained_cgpa,omitempty" json:"obtained_cgpa,omitempty"`
	YearOfPassing int      `bson:"year_of_passing,omitempty" json:"year_of_passing,omitempty"`
	IsPursuing    bool     `bson:"is_pursuing" json:"is_pursuing"`
}
