// internal/domain/models/communicationlog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Communication channels.
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// CommunicationLog records one outbound message to a lead.
type CommunicationLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollegeID primitive.ObjectID `bson:"college_id" json:"college_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Channel   string             `bson:"channel" json:"channel"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Template  string             `bson:"template,omitempty" json:"template,omitempty"`
	Status    string             `bson:"status" json:"status"` // sent | failed
	SentBy    *primitive.ObjectID `bson:"sent_by,omitempty" json:"sent_by,omitempty"`
	SentAt    time.Time          `bson:"sent_at" json:"sent_at"`
}
