// internal/app/store/followups/followupstore.go
package followupstore

import (
	"context"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(pipeline.CollFollowUps)}
}

var validStages = map[string]bool{
	models.LeadStageFresh:              true,
	models.LeadStageInterested:         true,
	models.LeadStageFollowUp:           true,
	models.LeadStageAdmissionConfirmed: true,
}

// SetStage records a stage transition for an application, creating the
// follow-up record on first use. The transition is appended to History
// whether or not the stage actually changed; repeated notes at the same
// stage are part of the record.
func (s *Store) SetStage(ctx context.Context, fu models.LeadFollowUp, note string, changedBy *primitive.ObjectID) (models.LeadFollowUp, error) {
	if !validStages[fu.LeadStage] {
		return models.LeadFollowUp{}, apperrors.BusinessRule("unknown lead stage %q", fu.LeadStage)
	}

	now := time.Now().UTC()
	change := models.StageChange{
		Stage:     fu.LeadStage,
		Note:      note,
		ChangedBy: changedBy,
		ChangedAt: now,
	}

	filter := bson.M{"application_id": fu.ApplicationID}
	update := bson.M{
		"$set": bson.M{
			"lead_stage": fu.LeadStage,
			"student_id": fu.StudentID,
			"college_id": fu.CollegeID,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
		"$push":        bson.M{"history": change},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var out models.LeadFollowUp
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return models.LeadFollowUp{}, err
	}
	return out, nil
}

// GetByApplication returns the follow-up record for one application.
func (s *Store) GetByApplication(ctx context.Context, applicationID primitive.ObjectID) (models.LeadFollowUp, error) {
	var fu models.LeadFollowUp
	err := s.c.FindOne(ctx, bson.M{"application_id": applicationID}).Decode(&fu)
	if err == mongo.ErrNoDocuments {
		return models.LeadFollowUp{}, apperrors.NotFound("follow-up")
	}
	if err != nil {
		return models.LeadFollowUp{}, err
	}
	return fu, nil
}

// CountByStage returns per-stage totals for a college inside a window.
func (s *Store) CountByStage(ctx context.Context, collegeID primitive.ObjectID, from, to time.Time) (map[string]int64, error) {
	pl := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"college_id": collegeID,
			"updated_at": bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$lead_stage",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pl)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []struct {
		Stage string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(docs))
	for _, d := range docs {
		out[d.Stage] = d.Count
	}
	return out, nil
}
