// internal/app/store/secondaryedu/secondarystore.go
package secondarystore

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
	return &Store{c: db.Collection(pipeline.CollSecondary)}
}

// UpsertLevel writes one schooling level (tenth or inter), creating the
// record on first submission. Form sections arrive independently.
func (s *Store) UpsertLevel(ctx context.Context, studentID, collegeID primitive.ObjectID, level string, detail models.EducationDetail) error {
	if level != "tenth" && level != "inter" {
		return apperrors.BusinessRule("unknown education level %q", level)
	}
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"student_id": studentID},
		bson.M{
			"$set": bson.M{
				level:        detail,
				"college_id": collegeID,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetByStudent returns the academic record for one lead.
func (s *Store) GetByStudent(ctx context.Context, studentID primitive.ObjectID) (models.SecondaryEducation, error) {
	var se models.SecondaryEducation
	err := s.c.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&se)
	if err == mongo.ErrNoDocuments {
		return models.SecondaryEducation{}, apperrors.NotFound("secondary education")
	}
	if err != nil {
		return models.SecondaryEducation{}, err
	}
	return se, nil
}
