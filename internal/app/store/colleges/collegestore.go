// internal/app/store/colleges/collegestore.go
package collegestore

import (
	"context"
	"time"

	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("colleges")}
}

// GetByID returns one college.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.College, error) {
	var col models.College
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&col)
	if err == mongo.ErrNoDocuments {
		return models.College{}, apperrors.NotFound("college")
	}
	if err != nil {
		return models.College{}, err
	}
	return col, nil
}

// Season returns the college's admission-season window, falling back to
// the trailing year when no season is configured.
func (s *Store) Season(ctx context.Context, id primitive.ObjectID) (from, to time.Time, err error) {
	col, err := s.GetByID(ctx, id)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	now := time.Now().UTC()
	if col.SeasonStart != nil && col.SeasonEnd != nil {
		return *col.SeasonStart, *col.SeasonEnd, nil
	}
	return now.AddDate(-1, 0, 0), now, nil
}

// SetSeason updates the admission-season window.
func (s *Store) SetSeason(ctx context.Context, id primitive.ObjectID, start, end time.Time) error {
	if !end.After(start) {
		return apperrors.BusinessRule("season end must be after season start")
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"season_start": start,
		"season_end":   end,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("college")
	}
	return nil
}
