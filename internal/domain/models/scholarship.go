// internal/domain/models/scholarship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Waiver types for scholarships.
const (
	WaiverTypePercentage = "Percentage"
	WaiverTypeAmount     = "Amount"
)

// Scholarship defines a named fee waiver, the filter criteria that decide
// eligibility, and running counters over the applicant population.
//
// Invariant: OfferedApplicants and DelistApplicants are disjoint sets.
// Eligibility counts are recomputed from live data on every read, never
// cached (eligibility depends on current lead/application state).
type Scholarship struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollegeID primitive.ObjectID `bson:"college_id" json:"college_id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	Status    string             `bson:"status" json:"status"` // active | closed

	WaiverType  string  `bson:"waiver_type" json:"waiver_type"`
	WaiverValue float64 `bson:"waiver_value" json:"waiver_value"`

	// Programs scopes the scholarship to particular course/specialization
	// combinations.
	Programs []ProgramScope `bson:"programs,omitempty" json:"programs,omitempty"`

	// Stored filter criteria, replayed through the pipeline assembler on
	// every eligibility read.
	Filters        *FilterPayload `bson:"filters,omitempty" json:"filters,omitempty"`
	AdvanceFilters []FilterBlock  `bson:"advance_filters,omitempty" json:"advance_filters,omitempty"`

	EligibleCount int64   `bson:"eligible_count" json:"eligible_count"`
	OfferedCount  int64   `bson:"offered_count" json:"offered_count"`
	AvailedCount  int64   `bson:"availed_count" json:"availed_count"`
	OfferedAmount float64 `bson:"offered_amount" json:"offered_amount"`
	AvailedAmount float64 `bson:"availed_amount" json:"availed_amount"`

	OfferedApplicants []primitive.ObjectID `bson:"offered_applicants,omitempty" json:"offered_applicants,omitempty"`
	DelistApplicants  []primitive.ObjectID `bson:"delist_applicants,omitempty" json:"delist_applicants,omitempty"`

	TemplateID *primitive.ObjectID `bson:"template_id,omitempty" json:"template_id,omitempty"`

	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// ProgramScope names one course/specialization combination covered by a
// scholarship, with the program fee used for waiver math.
type ProgramScope struct {
	CourseID   primitive.ObjectID `bson:"course_id" json:"course_id"`
	CourseName string             `bson:"course_name,omitempty" json:"course_name,omitempty"`
	SpecName   string             `bson:"spec_name,omitempty" json:"spec_name,omitempty"`
	ProgramFee float64            `bson:"program_fee" json:"program_fee"`
}

// FeesAfterWaiver applies the waiver to a program fee.
// Percentage waivers reduce proportionally; Amount waivers subtract flat.
func (s Scholarship) FeesAfterWaiver(programFee float64) (fees float64, percentage float64) {
	switch s.WaiverType {
	case WaiverTypePercentage:
		fees = programFee - programFee*s.WaiverValue/100
		percentage = s.WaiverValue
	case WaiverTypeAmount:
		fees = programFee - s.WaiverValue
		if programFee > 0 {
			percentage = s.WaiverValue / programFee * 100
		}
	default:
		fees = programFee
	}
	if fees < 0 {
		fees = 0
	}
	return fees, percentage
}
