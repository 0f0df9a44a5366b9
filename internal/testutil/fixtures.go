// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCollege creates a test college with the given name.
func (f *Fixtures) CreateCollege(ctx context.Context, name string) models.College {
	f.t.Helper()

	now := time.Now().UTC()
	seasonStart := now.AddDate(0, -6, 0)
	seasonEnd := now.AddDate(0, 6, 0)
	college := models.College{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Status:      "active",
		SeasonStart: &seasonStart,
		SeasonEnd:   &seasonEnd,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("colleges").InsertOne(ctx, college); err != nil {
		f.t.Fatalf("failed to create test college: %v", err)
	}
	return college
}

// CreateLead creates a test lead with the given name and email in the
// given college. EnquiryDate is set to now.
func (f *Fixtures) CreateLead(ctx context.Context, collegeID primitive.ObjectID, firstName, email string) models.Lead {
	f.t.Helper()

	now := time.Now().UTC()
	lead := models.Lead{
		ID:          primitive.NewObjectID(),
		CollegeID:   collegeID,
		FirstName:   firstName,
		FullNameCI:  text.Fold(firstName),
		Email:       email,
		CountryCode: "+91",
		Mobile:      "9000000000",
		Gender:      "Male",
		Category:    "General",
		Address: &models.Address{
			City:  "Pune",
			State: "MH",
		},
		EnquiryDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("leads").InsertOne(ctx, lead); err != nil {
		f.t.Fatalf("failed to create test lead: %v", err)
	}
	return lead
}

// CreateApplication creates a test application for the given lead and
// course at the enquiry stage.
func (f *Fixtures) CreateApplication(ctx context.Context, collegeID, studentID, courseID primitive.ObjectID) models.Application {
	f.t.Helper()

	now := time.Now().UTC()
	app := models.Application{
		ID:           primitive.NewObjectID(),
		CollegeID:    collegeID,
		StudentID:    studentID,
		CourseID:     courseID,
		CurrentStage: models.StageEnquiry,
		EnquiryDate:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreateCourse creates an active test course with the given name and fee.
func (f *Fixtures) CreateCourse(ctx context.Context, collegeID primitive.ObjectID, name string, fees float64) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	course := models.Course{
		ID:          primitive.NewObjectID(),
		CollegeID:   collegeID,
		Name:        name,
		NameCI:      text.Fold(name),
		Fees:        fees,
		IsActivated: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

// CreateScholarship creates an active test scholarship scoped to one
// program.
func (f *Fixtures) CreateScholarship(ctx context.Context, collegeID primitive.ObjectID, name string, waiverType string, waiverValue float64, program models.ProgramScope) models.Scholarship {
	f.t.Helper()

	now := time.Now().UTC()
	sc := models.Scholarship{
		ID:          primitive.NewObjectID(),
		CollegeID:   collegeID,
		Name:        name,
		NameCI:      text.Fold(name),
		Status:      "active",
		WaiverType:  waiverType,
		WaiverValue: waiverValue,
		Programs:    []models.ProgramScope{program},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("scholarships").InsertOne(ctx, sc); err != nil {
		f.t.Fatalf("failed to create test scholarship: %v", err)
	}
	return sc
}

// CreateCounselor creates a counselor user for the given college.
func (f *Fixtures) CreateCounselor(ctx context.Context, collegeID primitive.ObjectID, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       "counselor",
		Status:     "active",
		CollegeID:  &collegeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test counselor: %v", err)
	}
	return user
}
