// internal/app/store/scholarships/scholarshipstore.go
package scholarshipstore

import (
	"context"
	"strings"
	"time"

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
	c       *mongo.Collection
	courses *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("scholarships"),
		courses: db.Collection("courses"),
	}
}

// validateWaiver checks the waiver definition against the covered
// program fees. An Amount waiver larger than a program's fee would
// silently clamp the fee to zero, so it is rejected here instead.
func validateWaiver(sc models.Scholarship) error {
	switch sc.WaiverType {
	case models.WaiverTypePercentage, models.WaiverTypeAmount:
	default:
		return apperrors.BusinessRule("waiver type must be Percentage or Amount")
	}
	if sc.WaiverValue <= 0 {
		return apperrors.BusinessRule("waiver value must be positive")
	}
	if sc.WaiverType == models.WaiverTypePercentage && sc.WaiverValue > 100 {
		return apperrors.BusinessRule("percentage waiver cannot exceed 100")
	}
	if sc.WaiverType == models.WaiverTypeAmount {
		for _, pr := range sc.Programs {
			if pr.ProgramFee > 0 && sc.WaiverValue > pr.ProgramFee {
				return apperrors.BusinessRule("waiver %v exceeds the program fee %v", sc.WaiverValue, pr.ProgramFee)
			}
		}
	}
	return nil
}

// validatePrograms checks every named specialization against its course.
func (s *Store) validatePrograms(ctx context.Context, programs []models.ProgramScope) error {
	for _, pr := range programs {
		if pr.SpecName == "" {
			continue
		}
		var course models.Course
		err := s.courses.FindOne(ctx, bson.M{"_id": pr.CourseID}).Decode(&course)
		if err == mongo.ErrNoDocuments {
			return apperrors.NotFound("course")
		}
		if err != nil {
			return err
		}
		if !course.HasSpecialization(pr.SpecName) {
			return apperrors.BusinessRule("invalid specialization %q for course %s", pr.SpecName, course.Name)
		}
	}
	return nil
}

// Create inserts a scholarship, setting NameCI and timestamps. Names are
// unique per college.
func (s *Store) Create(ctx context.Context, sc models.Scholarship) (models.Scholarship, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return models.Scholarship{}, apperrors.BusinessRule("scholarship name is required")
	}
	if err := validateWaiver(sc); err != nil {
		return models.Scholarship{}, err
	}
	if err := s.validatePrograms(ctx, sc.Programs); err != nil {
		return models.Scholarship{}, err
	}

	now := time.Now().UTC()
	sc.ID = primitive.NewObjectID()
	sc.NameCI = text.Fold(sc.Name)
	if sc.Status == "" {
		sc.Status = "active"
	}
	sc.CreatedAt = now
	sc.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Scholarship{}, apperrors.BusinessRule("a scholarship with this name already exists")
		}
		return models.Scholarship{}, err
	}
	return sc, nil
}

// Update modifies mutable fields and refreshes UpdatedAt. Filter
// criteria replace wholesale; partial filter edits are not supported.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Scholarship) error {
	set := bson.M{"updated_at": time.Now().UTC()}

	if strings.TrimSpace(mut.Name) != "" {
		set["name"] = mut.Name
		set["name_ci"] = text.Fold(mut.Name)
	}
	if mut.Status != "" {
		if mut.Status != "active" && mut.Status != "closed" {
			return apperrors.BusinessRule("status must be active or closed")
		}
		set["status"] = mut.Status
	}
	if mut.WaiverType != "" || mut.Programs != nil {
		// Re-check the waiver against the fees it will cover after the
		// partial update lands.
		cur, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mut.WaiverType != "" {
			cur.WaiverType = mut.WaiverType
			cur.WaiverValue = mut.WaiverValue
		}
		if mut.Programs != nil {
			cur.Programs = mut.Programs
		}
		if err := validateWaiver(cur); err != nil {
			return err
		}
		if err := s.validatePrograms(ctx, cur.Programs); err != nil {
			return err
		}
	}
	if mut.WaiverType != "" {
		set["waiver_type"] = mut.WaiverType
		set["waiver_value"] = mut.WaiverValue
	}
	if mut.Programs != nil {
		set["programs"] = mut.Programs
	}
	if mut.Filters != nil {
		set["filters"] = mut.Filters
	}
	if mut.AdvanceFilters != nil {
		set["advance_filters"] = mut.AdvanceFilters
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return apperrors.BusinessRule("a scholarship with this name already exists")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("scholarship")
	}
	return nil
}

// GetByID returns one scholarship.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Scholarship, error) {
	var sc models.Scholarship
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if err == mongo.ErrNoDocuments {
		return models.Scholarship{}, apperrors.NotFound("scholarship")
	}
	if err != nil {
		return models.Scholarship{}, err
	}
	return sc, nil
}

// ListByCollege returns a college's scholarships, newest first.
func (s *Store) ListByCollege(ctx context.Context, collegeID primitive.ObjectID, skip, limit int64) ([]models.Scholarship, int64, error) {
	filter := bson.M{"college_id": collegeID}
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
	var out []models.Scholarship
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Offer moves applications onto the offered list, pulling them off the
// delist list so the two sets stay disjoint.
func (s *Store) Offer(ctx context.Context, id primitive.ObjectID, applicationIDs []primitive.ObjectID) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"offered_applicants": bson.M{"$each": applicationIDs}},
		"$pull":     bson.M{"delist_applicants": bson.M{"$in": applicationIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("scholarship")
	}
	return nil
}

// Delist moves applications onto the delist list, pulling them off the
// offered list. Delisting an application that was never offered is a
// business-rule violation surfaced by the caller after checking the
// offered set.
func (s *Store) Delist(ctx context.Context, id primitive.ObjectID, applicationIDs []primitive.ObjectID) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"delist_applicants": bson.M{"$each": applicationIDs}},
		"$pull":     bson.M{"offered_applicants": bson.M{"$in": applicationIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("scholarship")
	}
	return nil
}

// UpdateCounts writes the recomputed counters.
func (s *Store) UpdateCounts(ctx context.Context, id primitive.ObjectID, eligible, offered, availed int64, offeredAmount, availedAmount float64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"eligible_count": eligible,
		"offered_count":  offered,
		"availed_count":  availed,
		"offered_amount": offeredAmount,
		"availed_amount": availedAmount,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("scholarship")
	}
	return nil
}

// Delete removes a scholarship. Offers already written onto
// applications are detached by the caller first.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("scholarship")
	}
	return nil
}
