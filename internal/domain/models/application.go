// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application funnel stages, recorded as a numeric current_stage marker.
// Stages are advanced by external events (form submission, payment gateway
// callback, counselor action); any combination of stage and flags is
// representable, and readers must tolerate inconsistent combinations.
const (
	StageEnquiry       = 1.0
	StageFormInitiated = 2.0
	StagePayment       = 3.75
	StageDeclaration   = 5.0
)

// Application is one course application by a lead. A lead may hold several
// applications (one per course/specialization).
type Application struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollegeID primitive.ObjectID `bson:"college_id" json:"college_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"` // lead _id
	CourseID  primitive.ObjectID `bson:"course_id" json:"course_id"`
	SpecName  string             `bson:"spec_name,omitempty" json:"spec_name,omitempty"`

	CustomApplicationID string  `bson:"custom_application_id,omitempty" json:"custom_application_id,omitempty"`
	CurrentStage        float64 `bson:"current_stage" json:"current_stage"`

	// Declaration is true once the candidate has submitted the final
	// declaration form; the application is then considered complete.
	Declaration bool `bson:"declaration" json:"declaration"`

	PaymentInitiated bool         `bson:"payment_initiated" json:"payment_initiated"`
	PaymentInfo      *PaymentInfo `bson:"payment_info,omitempty" json:"payment_info,omitempty"`

	CounselorID   *primitive.ObjectID `bson:"counselor_id,omitempty" json:"counselor_id,omitempty"`
	CounselorName string              `bson:"counselor_name,omitempty" json:"counselor_name,omitempty"`

	// DVStatus is the document-verification status:
	// "" | "To be verified" | "Verified" | "Rejected".
	DVStatus string `bson:"dv_status,omitempty" json:"dv_status,omitempty"`

	Scholarship *ScholarshipOffer `bson:"scholarship,omitempty" json:"scholarship,omitempty"`

	IsEnrolled bool `bson:"is_enrolled" json:"is_enrolled"`
	IsRejected bool `bson:"is_rejected" json:"is_rejected"`

	EnquiryDate time.Time `bson:"enquiry_date" json:"enquiry_date"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Payment statuses as reported by the gateway callback.
const (
	PaymentStatusStarted  = "started"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// PaymentInfo is the payment sub-document written by the gateway callback.
type PaymentInfo struct {
	Status    string     `bson:"status,omitempty" json:"status,omitempty"`
	OrderID   string     `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Amount    float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	CreatedAt *time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// ScholarshipOffer is the waiver attached to an application when a
// scholarship is offered to it.
type ScholarshipOffer struct {
	ScholarshipID   primitive.ObjectID `bson:"scholarship_id" json:"scholarship_id"`
	ScholarshipName string             `bson:"scholarship_name" json:"scholarship_name"`
	WaiverType      string             `bson:"waiver_type" json:"waiver_type"` // Percentage | Amount
	WaiverValue     float64            `bson:"waiver_value" json:"waiver_value"`
	FeesAfterWaiver float64            `bson:"fees_after_waiver" json:"fees_after_waiver"`
	Percentage      float64            `bson:"percentage" json:"percentage"`
	OfferedAt       time.Time          `bson:"offered_at" json:"offered_at"`
}
