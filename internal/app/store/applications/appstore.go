// internal/app/store/applications/appstore.go
package appstore

import (
	"context"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	"github.com/dalemusser/admitflow/internal/app/query/projector"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c       *mongo.Collection
	courses *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection(pipeline.CollApps),
		courses: db.Collection(pipeline.CollCourses),
	}
}

// Create inserts an application at the enquiry stage. One application
// per lead and course/specialization pair, enforced by index. A named
// specialization must exist on the course.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	if a.SpecName != "" {
		var course models.Course
		err := s.courses.FindOne(ctx, bson.M{"_id": a.CourseID}).Decode(&course)
		if err == mongo.ErrNoDocuments {
			return models.Application{}, apperrors.NotFound("course")
		}
		if err != nil {
			return models.Application{}, err
		}
		if !course.HasSpecialization(a.SpecName) {
			return models.Application{}, apperrors.BusinessRule("invalid specialization %q for course %s", a.SpecName, course.Name)
		}
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.CurrentStage == 0 {
		a.CurrentStage = models.StageEnquiry
	}
	if a.EnquiryDate.IsZero() {
		a.EnquiryDate = now
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, apperrors.BusinessRule("an application for this program already exists")
		}
		return models.Application{}, err
	}
	return a, nil
}

// GetByID returns one application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Application{}, apperrors.NotFound("application")
	}
	if err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// AdvanceStage moves the funnel marker forward. Stages only move up;
// callbacks can arrive out of order.
func (s *Store) AdvanceStage(ctx context.Context, id primitive.ObjectID, stage float64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "current_stage": bson.M{"$lt": stage}},
		bson.M{"$set": bson.M{"current_stage": stage, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either missing or already past this stage; distinguish.
		if n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id}); cerr == nil && n == 0 {
			return apperrors.NotFound("application")
		}
	}
	return nil
}

// RecordPayment writes the gateway callback: the payment sub-document,
// the initiation flag, and the stage marker in one update.
func (s *Store) RecordPayment(ctx context.Context, id primitive.ObjectID, info models.PaymentInfo) error {
	if info.CreatedAt == nil {
		now := time.Now().UTC()
		info.CreatedAt = &now
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"payment_initiated": true,
		"payment_info":      info,
		"current_stage":     models.StagePayment,
		"updated_at":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// SubmitDeclaration completes the form.
func (s *Store) SubmitDeclaration(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"declaration":   true,
		"current_stage": models.StageDeclaration,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// SetDVStatus records the document-verification outcome.
func (s *Store) SetDVStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	switch status {
	case "To be verified", "Verified", "Rejected":
	default:
		return apperrors.BusinessRule("unknown dv status %q", status)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"dv_status":  status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// AssignCounselor sets the counselor on a batch of applications.
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

// SetEnrolled marks an application enrolled or rejected. The two flags
// are mutually exclusive.
func (s *Store) SetEnrolled(ctx context.Context, id primitive.ObjectID, enrolled bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_enrolled": enrolled,
		"is_rejected": !enrolled,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("application")
	}
	return nil
}

// AttachOffer writes a scholarship offer onto a batch of applications.
func (s *Store) AttachOffer(ctx context.Context, ids []primitive.ObjectID, offer models.ScholarshipOffer) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{
		"scholarship": offer,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DetachOffer removes a scholarship's offer from a batch of
// applications, skipping applications holding a different scholarship.
func (s *Store) DetachOffer(ctx context.Context, ids []primitive.ObjectID, scholarshipID primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "scholarship.scholarship_id": scholarshipID},
		bson.M{
			"$unset": bson.M{"scholarship": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List runs the application-rooted filter pipeline and decodes the
// joined documents.
func (s *Store) List(ctx context.Context, p pipeline.Params) ([]projector.ApplicationDoc, error) {
	cur, err := s.c.Aggregate(ctx, pipeline.Applications(p))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []projector.ApplicationDoc
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountMatching resolves just the matched total for a filter set.
func (s *Store) CountMatching(ctx context.Context, p pipeline.Params) (int64, error) {
	cur, err := s.c.Aggregate(ctx, pipeline.Count(p))
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

// IDsMatching resolves the application ids a filter set matches, for
// scholarship eligibility recomputation.
func (s *Store) IDsMatching(ctx context.Context, p pipeline.Params) ([]primitive.ObjectID, error) {
	p.WithTotal = false
	p.Skip, p.Limit = 0, 0
	pl := pipeline.Applications(p)
	pl = append(pl, bson.D{{Key: "$project", Value: bson.M{"_id": 1}}})

	cur, err := s.c.Aggregate(ctx, pl)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// CountByStage returns the number of applications at or past a funnel
// stage inside an enquiry-date window.
func (s *Store) CountByStage(ctx context.Context, collegeID primitive.ObjectID, stage float64, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"college_id":    collegeID,
		"current_stage": bson.M{"$gte": stage},
		"enquiry_date":  bson.M{"$gte": from, "$lt": to},
	})
}

// SourceFunnel is one acquisition source's funnel slice.
type SourceFunnel struct {
	Source       string `bson:"_id" json:"source"`
	Enquiries    int64  `bson:"enquiries" json:"enquiries"`
	FormsStarted int64  `bson:"forms_started" json:"forms_started"`
	Payments     int64  `bson:"payments" json:"payments"`
	Declarations int64  `bson:"declarations" json:"declarations"`
	Enrolled     int64  `bson:"enrolled" json:"enrolled"`
}

func atStage(stage float64) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$gte": bson.A{"$current_stage", stage}}, 1, 0,
	}}}
}

// FunnelBySource groups funnel counts by the lead's primary utm_source
// inside an enquiry-date window. Leads with no attribution land in the
// "unknown" bucket.
func (s *Store) FunnelBySource(ctx context.Context, collegeID primitive.ObjectID, from, to time.Time) ([]SourceFunnel, error) {
	pl := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"college_id":   collegeID,
			"enquiry_date": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         pipeline.CollLeads,
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$student",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$ifNull": bson.A{"$student.source.primary_source.utm_source", "unknown"}},
			"enquiries":     bson.M{"$sum": 1},
			"forms_started": atStage(models.StageFormInitiated),
			"payments":      atStage(models.StagePayment),
			"declarations":  atStage(models.StageDeclaration),
			"enrolled": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$is_enrolled", true}}, 1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "enquiries", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pl)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []SourceFunnel
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountEnrolled returns the enrolled count inside an enquiry-date window.
func (s *Store) CountEnrolled(ctx context.Context, collegeID primitive.ObjectID, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"college_id":   collegeID,
		"is_enrolled":  true,
		"enquiry_date": bson.M{"$gte": from, "$lt": to},
	})
}
