// internal/app/store/scholarships/scholarshipstore_test.go
package scholarshipstore_test

import (
	"testing"

	scholarshipstore "github.com/dalemusser/admitflow/internal/app/store/scholarships"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/admitflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scholarshipstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	collegeID := primitive.NewObjectID()

	tests := []struct {
		name string
		sc   models.Scholarship
	}{
		{"missing name", models.Scholarship{CollegeID: collegeID, WaiverType: models.WaiverTypePercentage, WaiverValue: 20}},
		{"bad waiver type", models.Scholarship{CollegeID: collegeID, Name: "Merit", WaiverType: "Discount", WaiverValue: 20}},
		{"zero waiver", models.Scholarship{CollegeID: collegeID, Name: "Merit", WaiverType: models.WaiverTypeAmount, WaiverValue: 0}},
		{"percentage over 100", models.Scholarship{CollegeID: collegeID, Name: "Merit", WaiverType: models.WaiverTypePercentage, WaiverValue: 150}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tc.sc); !apperrors.IsBusinessRule(err) {
				t.Errorf("got %v, want business-rule error", err)
			}
		})
	}

	sc, err := store.Create(ctx, models.Scholarship{
		CollegeID:   collegeID,
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypePercentage,
		WaiverValue: 20,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sc.Status != "active" {
		t.Errorf("status: got %q, want active", sc.Status)
	}
	if sc.NameCI != "merit 2026" {
		t.Errorf("folded name: got %q", sc.NameCI)
	}
}

// An Amount waiver larger than a covered program's fee would clamp the
// fee to zero on disbursement; it must be rejected up front.
func TestCreate_WaiverExceedsProgramFee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scholarshipstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	collegeID := primitive.NewObjectID()
	program := models.ProgramScope{CourseID: primitive.NewObjectID(), ProgramFee: 100000}

	_, err := store.Create(ctx, models.Scholarship{
		CollegeID:   collegeID,
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypeAmount,
		WaiverValue: 150000,
		Programs:    []models.ProgramScope{program},
	})
	if !apperrors.IsBusinessRule(err) {
		t.Errorf("oversized waiver: got %v, want business-rule error", err)
	}

	sc, err := store.Create(ctx, models.Scholarship{
		CollegeID:   collegeID,
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypeAmount,
		WaiverValue: 50000,
		Programs:    []models.ProgramScope{program},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Raising the waiver past the fee on update is rejected the same way.
	err = store.Update(ctx, sc.ID, models.Scholarship{
		WaiverType:  models.WaiverTypeAmount,
		WaiverValue: 150000,
	})
	if !apperrors.IsBusinessRule(err) {
		t.Errorf("oversized waiver on update: got %v, want business-rule error", err)
	}
}

func TestCreate_ValidatesProgramSpecialization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scholarshipstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	if _, err := db.Collection("courses").UpdateOne(ctx,
		bson.M{"_id": course.ID},
		bson.M{"$set": bson.M{"course_specialization": []models.Specialization{{Name: "Finance"}}}}); err != nil {
		t.Fatalf("add specialization: %v", err)
	}

	_, err := store.Create(ctx, models.Scholarship{
		CollegeID:   college.ID,
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypePercentage,
		WaiverValue: 20,
		Programs: []models.ProgramScope{
			{CourseID: course.ID, SpecName: "Marketing", ProgramFee: 100000},
		},
	})
	if !apperrors.IsBusinessRule(err) {
		t.Errorf("unknown specialization: got %v, want business-rule error", err)
	}

	if _, err := store.Create(ctx, models.Scholarship{
		CollegeID:   college.ID,
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypePercentage,
		WaiverValue: 20,
		Programs: []models.ProgramScope{
			{CourseID: course.ID, SpecName: "Finance", ProgramFee: 100000},
		},
	}); err != nil {
		t.Errorf("valid specialization: %v", err)
	}
}

// Offering and delisting must keep the two applicant sets disjoint no
// matter the order of operations.
func TestOfferDelist_SetsStayDisjoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scholarshipstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	sc, err := store.Create(ctx, models.Scholarship{
		CollegeID:   primitive.NewObjectID(),
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypeAmount,
		WaiverValue: 5000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	if err := store.Offer(ctx, sc.ID, []primitive.ObjectID{a, b}); err != nil {
		t.Fatalf("Offer: %v", err)
	}
	if err := store.Delist(ctx, sc.ID, []primitive.ObjectID{a}); err != nil {
		t.Fatalf("Delist: %v", err)
	}

	got, err := store.GetByID(ctx, sc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.OfferedApplicants) != 1 || got.OfferedApplicants[0] != b {
		t.Errorf("offered: got %v, want [%v]", got.OfferedApplicants, b)
	}
	if len(got.DelistApplicants) != 1 || got.DelistApplicants[0] != a {
		t.Errorf("delisted: got %v, want [%v]", got.DelistApplicants, a)
	}

	// Re-offering a delisted application moves it back.
	if err := store.Offer(ctx, sc.ID, []primitive.ObjectID{a}); err != nil {
		t.Fatalf("re-Offer: %v", err)
	}
	got, err = store.GetByID(ctx, sc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.OfferedApplicants) != 2 {
		t.Errorf("offered after re-offer: got %v", got.OfferedApplicants)
	}
	if len(got.DelistApplicants) != 0 {
		t.Errorf("delisted after re-offer: got %v, want empty", got.DelistApplicants)
	}
}

func TestUpdateCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := scholarshipstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	sc, err := store.Create(ctx, models.Scholarship{
		CollegeID:   primitive.NewObjectID(),
		Name:        "Merit 2026",
		WaiverType:  models.WaiverTypePercentage,
		WaiverValue: 20,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.UpdateCounts(ctx, sc.ID, 40, 12, 3, 240000, 60000); err != nil {
		t.Fatalf("UpdateCounts: %v", err)
	}

	got, err := store.GetByID(ctx, sc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.EligibleCount != 40 || got.OfferedCount != 12 || got.AvailedCount != 3 {
		t.Errorf("counts: got %d/%d/%d", got.EligibleCount, got.OfferedCount, got.AvailedCount)
	}
	if got.OfferedAmount != 240000 || got.AvailedAmount != 60000 {
		t.Errorf("amounts: got %v/%v", got.OfferedAmount, got.AvailedAmount)
	}

	if err := store.UpdateCounts(ctx, primitive.NewObjectID(), 0, 0, 0, 0, 0); !apperrors.IsNotFound(err) {
		t.Errorf("missing scholarship: got %v, want not-found error", err)
	}
}
