// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(pipeline.CollCourses)}
}

// Create inserts a course, setting NameCI and timestamps. Course names
// are unique per college.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	if strings.TrimSpace(c.Name) == "" {
		return models.Course{}, apperrors.BusinessRule("course name is required")
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	c.IsActivated = true
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, apperrors.BusinessRule("a course with this name already exists")
		}
		return models.Course{}, err
	}
	return c, nil
}

// GetByID returns one course.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Course{}, apperrors.NotFound("course")
	}
	if err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetByIDs returns multiple courses keyed by id.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var courses []models.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]models.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}

// ListActive returns a college's activated courses by name.
func (s *Store) ListActive(ctx context.Context, collegeID primitive.ObjectID) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "course_name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"college_id": collegeID, "is_activated": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetActivated flips a course's availability.
func (s *Store) SetActivated(ctx context.Context, id primitive.ObjectID, activated bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_activated": activated,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("course")
	}
	return nil
}
