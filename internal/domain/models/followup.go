// internal/domain/models/followup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead stages tracked by counselors in follow-up records.
const (
	LeadStageFresh              = "Fresh Lead"
	LeadStageInterested         = "Interested"
	LeadStageFollowUp           = "Follow-up"
	LeadStageAdmissionConfirmed = "Admission confirmed"
)

// LeadFollowUp tracks lead-stage transitions for one application.
// LeadStage is the current stage; History keeps every transition.
type LeadFollowUp struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ApplicationID primitive.ObjectID `bson:"application_id" json:"application_id"`
	StudentID     primitive.ObjectID `bson:"student_id" json:"student_id"`
	CollegeID     primitive.ObjectID `bson:"college_id" json:"college_id"`
	LeadStage     string             `bson:"lead_stage" json:"lead_stage"`
	History       []StageChange      `bson:"history,omitempty" json:"history,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// StageChange is one timestamped stage transition with an optional
// counselor note. Note text is sanitized before storage.
type StageChange struct {
	Stage     string              `bson:"stage" json:"stage"`
	Note      string              `bson:"note,omitempty" json:"note,omitempty"`
	ChangedBy *primitive.ObjectID `bson:"changed_by,omitempty" json:"changed_by,omitempty"`
	ChangedAt time.Time           `bson:"changed_at" json:"changed_at"`
}
