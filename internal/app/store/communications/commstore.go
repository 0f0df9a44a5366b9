// internal/app/store/communications/commstore.go
package commstore

import (
	"context"
	"time"

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
	return &Store{c: db.Collection("communication_logs")}
}

// Record appends one outbound-message log entry.
func (s *Store) Record(ctx context.Context, log models.CommunicationLog) (models.CommunicationLog, error) {
	switch log.Channel {
	case models.ChannelEmail, models.ChannelSMS, models.ChannelWhatsApp:
	default:
		return models.CommunicationLog{}, apperrors.BusinessRule("unknown channel %q", log.Channel)
	}
	log.ID = primitive.NewObjectID()
	if log.SentAt.IsZero() {
		log.SentAt = time.Now().UTC()
	}
	if log.Status == "" {
		log.Status = "sent"
	}
	if _, err := s.c.InsertOne(ctx, log); err != nil {
		return models.CommunicationLog{}, err
	}
	return log, nil
}

// ListByStudent returns a lead's message history, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID, limit int64) ([]models.CommunicationLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.CommunicationLog
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByChannel returns per-channel send totals inside a window.
func (s *Store) CountByChannel(ctx context.Context, collegeID primitive.ObjectID, from, to time.Time) (map[string]int64, error) {
	pl := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"college_id": collegeID,
			"sent_at":    bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$channel",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pl)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []struct {
		Channel string `bson:"_id"`
		Count   int64  `bson:"count"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(docs))
	for _, d := range docs {
		out[d.Channel] = d.Count
	}
	return out, nil
}
