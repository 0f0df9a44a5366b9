// internal/app/store/enquiries/enquirystore.go
package enquirystore

import (
	"context"
	"strings"
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
	return &Store{c: db.Collection("enquiries")}
}

// Create opens a help-desk enquiry.
func (s *Store) Create(ctx context.Context, e models.Enquiry) (models.Enquiry, error) {
	if strings.TrimSpace(e.Message) == "" {
		return models.Enquiry{}, apperrors.BusinessRule("message is required")
	}
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.Status = "open"
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Enquiry{}, err
	}
	return e, nil
}

// Answer records a counselor's reply and marks the enquiry answered.
func (s *Store) Answer(ctx context.Context, id primitive.ObjectID, answer string, answeredBy primitive.ObjectID) error {
	if strings.TrimSpace(answer) == "" {
		return apperrors.BusinessRule("answer is required")
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": "closed"}},
		bson.M{"$set": bson.M{
			"answer":      answer,
			"answered_by": answeredBy,
			"answered_at": now,
			"status":      "answered",
			"updated_at":  now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("enquiry")
	}
	return nil
}

// Close marks an enquiry resolved.
func (s *Store) Close(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     "closed",
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("enquiry")
	}
	return nil
}

// ListByCollege returns enquiries for a college, optionally restricted
// by status, newest first.
func (s *Store) ListByCollege(ctx context.Context, collegeID primitive.ObjectID, status string, skip, limit int64) ([]models.Enquiry, int64, error) {
	filter := bson.M{"college_id": collegeID}
	if status != "" {
		filter["status"] = status
	}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.Enquiry
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
