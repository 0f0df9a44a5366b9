// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureLeads(ctx, db); err != nil {
		problems = append(problems, "leads: "+err.Error())
	}
	if err := ensureApplications(ctx, db); err != nil {
		problems = append(problems, "applications: "+err.Error())
	}
	if err := ensureFollowUps(ctx, db); err != nil {
		problems = append(problems, "lead_followups: "+err.Error())
	}
	if err := ensureSecondaryEducations(ctx, db); err != nil {
		problems = append(problems, "secondary_educations: "+err.Error())
	}
	if err := ensureScholarships(ctx, db); err != nil {
		problems = append(problems, "scholarships: "+err.Error())
	}
	if err := ensureCommunicationLogs(ctx, db); err != nil {
		problems = append(problems, "communication_logs: "+err.Error())
	}
	if err := ensureEnquiries(ctx, db); err != nil {
		problems = append(problems, "enquiries: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureLeads(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("leads").Indexes().CreateMany(ctx, []mongo.IndexModel{
		// The base match of every lead pipeline: college scope plus the
		// enquiry-date range, sorted by enquiry date descending.
		{Keys: bson.D{{Key: "college_id", Value: 1}, {Key: "enquiry_date", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "counselor_id", Value: 1}}},
	})
	return err
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("applications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "college_id", Value: 1}, {Key: "enquiry_date", Value: -1}}},
		{Keys: bson.D{{Key: "student_id", Value: 1}}},
		{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "spec_name", Value: 1}}},
		{Keys: bson.D{{Key: "payment_info.created_at", Value: -1}}},
	})
	return err
}

func ensureFollowUps(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("lead_followups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "application_id", Value: 1}},
			Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "college_id", Value: 1}, {Key: "lead_stage", Value: 1}}},
	})
	return err
}

func ensureSecondaryEducations(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("secondary_educations").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true)},
	})
	return err
}

func ensureScholarships(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("scholarships").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "college_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true)},
	})
	return err
}

func ensureCommunicationLogs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("communication_logs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "sent_at", Value: -1}}},
	})
	return err
}

func ensureEnquiries(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("enquiries").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "college_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}
