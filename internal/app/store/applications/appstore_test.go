// internal/app/store/applications/appstore_test.go
package appstore_test

import (
	"testing"
	"time"

	"github.com/dalemusser/admitflow/internal/app/query/pipeline"
	appstore "github.com/dalemusser/admitflow/internal/app/store/applications"
	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"github.com/dalemusser/admitflow/internal/domain/models"
	"github.com/dalemusser/admitflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_ValidatesSpecialization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	lead := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	if _, err := db.Collection("courses").UpdateOne(ctx,
		bson.M{"_id": course.ID},
		bson.M{"$set": bson.M{"course_specialization": []models.Specialization{{Name: "Finance"}}}}); err != nil {
		t.Fatalf("add specialization: %v", err)
	}

	_, err := store.Create(ctx, models.Application{
		CollegeID: college.ID,
		StudentID: lead.ID,
		CourseID:  course.ID,
		SpecName:  "Marketing",
	})
	if !apperrors.IsBusinessRule(err) {
		t.Errorf("unknown specialization: got %v, want business-rule error", err)
	}

	if _, err := store.Create(ctx, models.Application{
		CollegeID: college.ID,
		StudentID: lead.ID,
		CourseID:  course.ID,
		SpecName:  "Finance",
	}); err != nil {
		t.Errorf("valid specialization: %v", err)
	}

	_, err = store.Create(ctx, models.Application{
		CollegeID: college.ID,
		StudentID: lead.ID,
		CourseID:  primitive.NewObjectID(),
		SpecName:  "Finance",
	})
	if !apperrors.IsNotFound(err) {
		t.Errorf("missing course: got %v, want not-found error", err)
	}
}

func TestCreate_DefaultsToEnquiryStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	app, err := store.Create(ctx, models.Application{
		CollegeID: primitive.NewObjectID(),
		StudentID: primitive.NewObjectID(),
		CourseID:  primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.CurrentStage != models.StageEnquiry {
		t.Errorf("stage: got %v, want %v", app.CurrentStage, models.StageEnquiry)
	}
	if app.EnquiryDate.IsZero() {
		t.Error("enquiry date not defaulted")
	}
}

func TestAdvanceStage_OnlyMovesForward(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	lead := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	app := fx.CreateApplication(ctx, college.ID, lead.ID, course.ID)

	if err := store.AdvanceStage(ctx, app.ID, models.StagePayment); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	// Out-of-order callback for an earlier stage must not move the
	// marker back.
	if err := store.AdvanceStage(ctx, app.ID, models.StageFormInitiated); err != nil {
		t.Fatalf("AdvanceStage (stale): %v", err)
	}

	got, err := store.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CurrentStage != models.StagePayment {
		t.Errorf("stage: got %v, want %v", got.CurrentStage, models.StagePayment)
	}

	if err := store.AdvanceStage(ctx, primitive.NewObjectID(), models.StagePayment); !apperrors.IsNotFound(err) {
		t.Errorf("missing application: got %v, want not-found error", err)
	}
}

func TestRecordPayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	lead := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	app := fx.CreateApplication(ctx, college.ID, lead.ID, course.ID)

	err := store.RecordPayment(ctx, app.ID, models.PaymentInfo{
		Status:  models.PaymentStatusCaptured,
		OrderID: "ord_123",
		Amount:  1500,
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	got, err := store.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.PaymentInitiated {
		t.Error("payment_initiated not set")
	}
	if got.PaymentInfo == nil || got.PaymentInfo.Status != models.PaymentStatusCaptured {
		t.Errorf("payment info: got %+v", got.PaymentInfo)
	}
	if got.PaymentInfo.CreatedAt == nil {
		t.Error("payment timestamp not defaulted")
	}
	if got.CurrentStage != models.StagePayment {
		t.Errorf("stage: got %v, want %v", got.CurrentStage, models.StagePayment)
	}
}

func TestSetDVStatus_RejectsUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.SetDVStatus(ctx, primitive.NewObjectID(), "Maybe")
	if !apperrors.IsBusinessRule(err) {
		t.Errorf("got %v, want business-rule error", err)
	}
}

func TestAttachAndDetachOffer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	lead := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	app := fx.CreateApplication(ctx, college.ID, lead.ID, course.ID)

	scholarshipID := primitive.NewObjectID()
	offer := models.ScholarshipOffer{
		ScholarshipID:   scholarshipID,
		ScholarshipName: "Merit 2026",
		WaiverType:      models.WaiverTypePercentage,
		WaiverValue:     20,
		FeesAfterWaiver: 80000,
		Percentage:      20,
		OfferedAt:       time.Now().UTC(),
	}

	n, err := store.AttachOffer(ctx, []primitive.ObjectID{app.ID}, offer)
	if err != nil || n != 1 {
		t.Fatalf("AttachOffer: n=%d err=%v", n, err)
	}

	// Detaching a different scholarship must not touch the offer.
	n, err = store.DetachOffer(ctx, []primitive.ObjectID{app.ID}, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("DetachOffer (other): %v", err)
	}
	if n != 0 {
		t.Errorf("detach of other scholarship modified %d docs, want 0", n)
	}

	n, err = store.DetachOffer(ctx, []primitive.ObjectID{app.ID}, scholarshipID)
	if err != nil || n != 1 {
		t.Fatalf("DetachOffer: n=%d err=%v", n, err)
	}

	got, err := store.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Scholarship != nil {
		t.Errorf("scholarship still attached: %+v", got.Scholarship)
	}
}

func TestListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)
	for i := 0; i < 3; i++ {
		lead := fx.CreateLead(ctx, college.ID, "Lead", "lead"+primitive.NewObjectID().Hex()+"@example.com")
		fx.CreateApplication(ctx, college.ID, lead.ID, course.ID)
	}

	docs, err := store.List(ctx, pipeline.Params{
		CollegeID: college.ID,
		Limit:     2,
		WithTotal: true,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs, want 2", len(docs))
	}
	if docs[0].TotalCount == nil || *docs[0].TotalCount != 3 {
		t.Errorf("facet total: got %v, want 3", docs[0].TotalCount)
	}
	if docs[0].Student.ID.IsZero() {
		t.Error("student document not joined")
	}

	n, err := store.CountMatching(ctx, pipeline.Params{CollegeID: college.ID})
	if err != nil {
		t.Fatalf("CountMatching: %v", err)
	}
	if n != 3 {
		t.Errorf("count: got %d, want 3", n)
	}
}

func TestFunnelBySource(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)

	setSource := func(leadID primitive.ObjectID, src string) {
		t.Helper()
		if _, err := db.Collection("leads").UpdateOne(ctx,
			bson.M{"_id": leadID},
			bson.M{"$set": bson.M{"source": models.LeadSource{Primary: &models.UTMSource{UTMSource: src}}}}); err != nil {
			t.Fatalf("set source: %v", err)
		}
	}

	a := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	setSource(a.ID, "google")
	appA := fx.CreateApplication(ctx, college.ID, a.ID, course.ID)
	if err := store.AdvanceStage(ctx, appA.ID, models.StagePayment); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if err := store.SetEnrolled(ctx, appA.ID, true); err != nil {
		t.Fatalf("SetEnrolled: %v", err)
	}

	b := fx.CreateLead(ctx, college.ID, "Priya", "priya@example.com")
	setSource(b.ID, "google")
	fx.CreateApplication(ctx, college.ID, b.ID, course.ID)

	// No attribution on this lead; it lands in the "unknown" bucket.
	c := fx.CreateLead(ctx, college.ID, "Asha", "asha@example.com")
	appC := fx.CreateApplication(ctx, college.ID, c.ID, course.ID)
	if err := store.AdvanceStage(ctx, appC.ID, models.StageFormInitiated); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	got, err := store.FunnelBySource(ctx, college.ID, from, to)
	if err != nil {
		t.Fatalf("FunnelBySource: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(got), got)
	}

	google := got[0]
	if google.Source != "google" {
		t.Fatalf("first bucket: got %q, want google (sorted by enquiries)", google.Source)
	}
	if google.Enquiries != 2 || google.FormsStarted != 1 || google.Payments != 1 || google.Enrolled != 1 {
		t.Errorf("google bucket: got %+v", google)
	}

	unknown := got[1]
	if unknown.Source != "unknown" {
		t.Fatalf("second bucket: got %q, want unknown", unknown.Source)
	}
	if unknown.Enquiries != 1 || unknown.FormsStarted != 1 || unknown.Payments != 0 {
		t.Errorf("unknown bucket: got %+v", unknown)
	}
}

func TestCountByStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appstore.New(db)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	college := fx.CreateCollege(ctx, "Test College")
	course := fx.CreateCourse(ctx, college.ID, "MBA", 100000)

	lead := fx.CreateLead(ctx, college.ID, "Ravi", "ravi@example.com")
	app := fx.CreateApplication(ctx, college.ID, lead.ID, course.ID)
	if err := store.AdvanceStage(ctx, app.ID, models.StageDeclaration); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	other := fx.CreateLead(ctx, college.ID, "Priya", "priya@example.com")
	fx.CreateApplication(ctx, college.ID, other.ID, course.ID)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	n, err := store.CountByStage(ctx, college.ID, models.StagePayment, from, to)
	if err != nil {
		t.Fatalf("CountByStage: %v", err)
	}
	if n != 1 {
		t.Errorf("at or past payment: got %d, want 1", n)
	}
}
