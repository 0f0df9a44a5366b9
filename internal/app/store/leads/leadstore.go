// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/query/projector"
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
	return &Store{c: db.Collection(pipeline.CollLeads)}
}

// Create inserts a new lead, setting FullNameCI and timestamps. Email
// uniqueness per college is enforced by index; duplicates surface as a
// business-rule error.
func (s *Store) Create(ctx context.Context, l models.Lead) (models.Lead, error) {
	if strings.TrimSpace(l.FirstName) == "" {
		return models.Lead{}, apperrors.BusinessRule("first name is required")
	}
	if strings.TrimSpace(l.Email) == "" && strings.TrimSpace(l.Mobile) == "" {
		return models.Lead{}, apperrors.BusinessRule("email or mobile is required")
	}

	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.FullNameCI = text.Fold(l.FullName())
	if l.EnquiryDate.IsZero() {
		l.EnquiryDate = now
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Lead{}, apperrors.BusinessRule("a lead with this email already exists")
		}
		return models.Lead{}, err
	}
	return l, nil
}

// Update modifies mutable profile fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Lead) error {
	set := bson.M{}

	if strings.TrimSpace(mut.FirstName) != "" {
		set["first_name"] = mut.FirstName
		set["middle_name"] = mut.MiddleName
		set["last_name"] = mut.LastName
		set["full_name_ci"] = text.Fold(mut.FullName())
	}
	if mut.Gender != "" {
		set["gender"] = mut.Gender
	}
	if mut.Category != "" {
		set["category"] = mut.Category
	}
	if mut.Address != nil {
		set["address"] = mut.Address
	}
	if mut.AnnualIncome != nil {
		set["annual_income"] = mut.AnnualIncome
	}
	if len(mut.Tags) > 0 {
		set["tags"] = mut.Tags
	}
	if len(mut.ExtraFields) > 0 {
		set["extra_fields"] = mut.ExtraFields
	}
	set["updated_at"] = time.Now().UTC()

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("lead")
	}
	return nil
}

// GetByID returns one lead.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Lead, error) {
	var l models.Lead
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return models.Lead{}, apperrors.NotFound("lead")
	}
	if err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

// SearchByName returns leads whose folded full name starts with the
// query, newest first.
func (s *Store) SearchByName(ctx context.Context, collegeID primitive.ObjectID, q string, limit int64) ([]models.Lead, error) {
	low, high := text.PrefixRange(text.Fold(q))
	filter := bson.M{
		"college_id":   collegeID,
		"full_name_ci": bson.M{"$gte": low, "$lt": high},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "enquiry_date", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Lead
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetVerification records a verification outcome for one channel and
// recomputes the overall flag.
func (s *Store) SetVerification(ctx context.Context, id primitive.ObjectID, channel string, ok bool) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	switch channel {
	case "email":
		set["is_email_verify"] = ok
	case "sms":
		set["is_mobile_verify"] = ok
	default:
		return apperrors.BusinessRule("unknown verification channel %q", channel)
	}

	// Pipeline update so the overall flag derives from both channel
	// flags: a failed check on one channel must not unverify the other.
	res, err := s.c.UpdateByID(ctx, id, bson.A{
		bson.M{"$set": set},
		bson.M{"$set": bson.M{
			"is_verify": bson.M{"$or": bson.A{"$is_email_verify", "$is_mobile_verify"}},
		}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("lead")
	}
	return nil
}

// Exclude unsubscribes a lead from outreach. Leads are never deleted.
func (s *Store) Exclude(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_excluded": true,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("lead")
	}
	return nil
}

// AssignCounselor sets the counselor on a batch of leads.
func (s *Store) AssignCounselor(ctx context.Context, ids []primitive.ObjectID, counselorID primitive.ObjectID, counselorName string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{
		"counselor_id":   counselorID,
		"counselor_name": counselorName,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List runs the lead-rooted filter pipeline and decodes the joined
// documents.
func (s *Store) List(ctx context.Context, p pipeline.Params) ([]projector.LeadDoc, error) {
	cur, err := s.c.Aggregate(ctx, pipeline.Leads(p))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []projector.LeadDoc
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountMatching returns the total matched by the lead-rooted pipeline.
func (s *Store) CountMatching(ctx context.Context, p pipeline.Params) (int64, error) {
	cur, err := s.c.Aggregate(ctx, pipeline.CountLeads(p))
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	var docs []struct {
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	return docs[0].Count, nil
}

// CountByCollege returns the lead count inside an enquiry-date window.
func (s *Store) CountByCollege(ctx context.Context, collegeID primitive.ObjectID, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"college_id":   collegeID,
		"enquiry_date": bson.M{"$gte": from, "$lt": to},
	})
}
